package native

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/wippyai/jtalk"
	"github.com/wippyai/jtalk/errors"
)

type (
	Ptr       = jtalk.Ptr
	Memory    = jtalk.Memory
	Allocator = jtalk.Allocator
)

// Backend is a loaded open_jtalk collaborator.
type Backend interface {
	Memory
	Allocator

	// Call invokes an exported C function. Integer and pointer arguments
	// are passed zero-extended; the result is the raw return register
	// (0 for void functions).
	Call(sym Symbol, args ...uint64) (uint64, error)

	// PointerSize returns sizeof(void *) in the collaborator.
	PointerSize() uint32

	// Close releases the collaborator. Every resource created from it must
	// have been cleared first.
	Close(ctx context.Context) error
}

// Lib is the typed call surface over a Backend.
// Lib is NOT thread-safe beyond what the Backend guarantees.
type Lib struct {
	backend Backend
	layout  Layout
}

// New wraps a backend.
func New(b Backend) *Lib {
	return &Lib{
		backend: b,
		layout:  NewLayout(b.PointerSize()),
	}
}

// Backend returns the wrapped backend.
func (l *Lib) Backend() Backend {
	return l.backend
}

// Layout returns the struct layouts for the backend's pointer size.
func (l *Lib) Layout() Layout {
	return l.layout
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func (l *Lib) call(sym Symbol, args ...uint64) uint64 {
	r, err := l.backend.Call(sym, args...)
	if err != nil {
		panic(errors.Trap(string(sym), err))
	}
	return r
}

func (l *Lib) callBool(sym Symbol, args ...uint64) bool {
	return toBool(l.call(sym, args...))
}

func (l *Lib) callInt(sym Symbol, args ...uint64) int32 {
	return int32(uint32(l.call(sym, args...)))
}

func (l *Lib) callPtr(sym Symbol, args ...uint64) Ptr {
	r := l.call(sym, args...)
	if l.layout.PtrSize == 4 {
		r = uint64(uint32(r))
	}
	return Ptr(r)
}

// toBool converts a C BOOL (TRUE == 1).
func toBool(v uint64) bool {
	return uint32(v) == 1
}

func p(v Ptr) uint64 { return uint64(v) }

func i(v int32) uint64 { return uint64(uint32(v)) }

// Malloc allocates size bytes on the collaborator's heap.
// Allocation failure is fatal.
func (l *Lib) Malloc(size uint32) Ptr {
	ptr, err := l.backend.Malloc(size)
	if err != nil {
		panic(err)
	}
	if ptr == 0 {
		panic(errors.AllocationFailed(errors.PhaseNative, size))
	}
	return ptr
}

// Free releases a block obtained from Malloc or from the collaborator.
// Free(0) is a no-op.
func (l *Lib) Free(ptr Ptr) {
	if ptr == 0 {
		return
	}
	l.backend.Free(ptr)
}

// ReadPtr reads a pointer-sized field.
func (l *Lib) ReadPtr(addr Ptr) Ptr {
	if l.layout.PtrSize == 4 {
		v, err := l.backend.ReadU32(addr)
		must(err)
		return Ptr(v)
	}
	v, err := l.backend.ReadU64(addr)
	must(err)
	return Ptr(v)
}

// WritePtr writes a pointer-sized field.
func (l *Lib) WritePtr(addr, value Ptr) {
	if l.layout.PtrSize == 4 {
		must(l.backend.WriteU32(addr, uint32(value)))
		return
	}
	must(l.backend.WriteU64(addr, uint64(value)))
}

// ReadInt reads a C int field.
func (l *Lib) ReadInt(addr Ptr) int32 {
	v, err := l.backend.ReadU32(addr)
	must(err)
	return int32(v)
}

// WriteInt writes a C int field.
func (l *Lib) WriteInt(addr Ptr, value int32) {
	must(l.backend.WriteU32(addr, uint32(value)))
}

// Zero clears n bytes at addr.
func (l *Lib) Zero(addr Ptr, n uint32) {
	must(l.backend.Write(addr, make([]byte, n)))
}

// AllocCString copies s into a new NUL-terminated buffer on the
// collaborator's heap. The caller owns the result. It reports false if s
// contains a NUL byte and cannot be represented.
func (l *Lib) AllocCString(s string) (Ptr, bool) {
	if strings.IndexByte(s, 0) >= 0 {
		return 0, false
	}
	buf := l.Malloc(uint32(len(s)) + 1)
	data := make([]byte, len(s)+1)
	copy(data, s)
	must(l.backend.Write(buf, data))
	return buf, true
}

// CBytes returns a copy of the NUL-terminated bytes at ptr.
func (l *Lib) CBytes(ptr Ptr) []byte {
	b, err := l.backend.ReadCString(ptr)
	must(err)
	return b
}

// GoString decodes the C string at ptr. The collaborator guarantees UTF-8;
// anything else panics.
func (l *Lib) GoString(ptr Ptr, function string) string {
	b := l.CBytes(ptr)
	if !utf8.Valid(b) {
		panic(errors.InvalidUTF8(errors.PhaseNative, function, b))
	}
	return string(b)
}

// CStringArray reads n entries of a char** array.
func (l *Lib) CStringArray(arr Ptr, n int32) []Ptr {
	if arr == 0 || n <= 0 {
		return nil
	}
	out := make([]Ptr, n)
	for k := range out {
		out[k] = l.ReadPtr(arr + Ptr(uint32(k)*l.layout.PtrSize))
	}
	return out
}
