//go:build darwin || linux

package dynlib

import (
	"bytes"
	"context"
	"encoding/binary"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/wippyai/jtalk"
	"github.com/wippyai/jtalk/errors"
	"github.com/wippyai/jtalk/native"
)

// Backend is a dlopen'ed open_jtalk library.
type Backend struct {
	handle uintptr
	path   string
	syms   map[native.Symbol]uintptr
	mu     sync.Mutex
	closed bool
}

var _ native.Backend = (*Backend)(nil)

// Open loads the shared library at path and resolves every symbol. All
// missing symbols are reported together in a *errors.MissingSymbolsError.
func Open(path string) (*Backend, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, errors.Load("dlopen "+path, err)
	}

	syms := make(map[native.Symbol]uintptr, len(native.Symbols))
	missing := native.Missing(func(s native.Symbol) bool {
		addr, err := purego.Dlsym(handle, string(s))
		if err != nil || addr == 0 {
			return false
		}
		syms[s] = addr
		return true
	})
	if len(missing) > 0 {
		_ = purego.Dlclose(handle)
		return nil, errors.NewMissingSymbolsError(path, missing)
	}

	Logger().Debug("open_jtalk library loaded", zap.String("path", path))
	return &Backend{handle: handle, path: path, syms: syms}, nil
}

func (b *Backend) PointerSize() uint32 { return uint32(unsafe.Sizeof(uintptr(0))) }

// Call invokes a resolved symbol with integer-class arguments.
func (b *Backend) Call(sym native.Symbol, args ...uint64) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, errors.NotInitialized(errors.PhaseNative, b.path)
	}
	fn, ok := b.syms[sym]
	if !ok {
		return 0, errors.NewMissingSymbolsError(b.path, []string{string(sym)})
	}
	cargs := make([]uintptr, len(args))
	for i, a := range args {
		cargs[i] = uintptr(a)
	}
	r1, _, _ := purego.SyscallN(fn, cargs...)
	return uint64(r1), nil
}

func (b *Backend) Malloc(size uint32) (jtalk.Ptr, error) {
	r, err := b.Call(native.SymMalloc, uint64(size))
	if err != nil {
		return 0, err
	}
	if r == 0 {
		return 0, errors.AllocationFailed(errors.PhaseNative, size)
	}
	return jtalk.Ptr(r), nil
}

func (b *Backend) Free(p jtalk.Ptr) {
	if p == 0 {
		return
	}
	if _, err := b.Call(native.SymFree, uint64(p)); err != nil {
		Logger().Warn("free failed", zap.Uint64("ptr", uint64(p)), zap.Error(err))
	}
}

// Close unloads the library.
func (b *Backend) Close(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return purego.Dlclose(b.handle)
}

func view(p jtalk.Ptr, n uint32) ([]byte, error) {
	if p == 0 {
		return nil, errors.OutOfBounds(errors.PhaseNative, 0, n)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(p))), n), nil
}

func (b *Backend) Read(p jtalk.Ptr, length uint32) ([]byte, error) {
	v, err := view(p, length)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(v), nil
}

func (b *Backend) Write(p jtalk.Ptr, data []byte) error {
	v, err := view(p, uint32(len(data)))
	if err != nil {
		return err
	}
	copy(v, data)
	return nil
}

func (b *Backend) ReadU32(p jtalk.Ptr) (uint32, error) {
	v, err := view(p, 4)
	if err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint32(v), nil
}

func (b *Backend) ReadU64(p jtalk.Ptr) (uint64, error) {
	v, err := view(p, 8)
	if err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint64(v), nil
}

func (b *Backend) WriteU32(p jtalk.Ptr, value uint32) error {
	v, err := view(p, 4)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint32(v, value)
	return nil
}

func (b *Backend) WriteU64(p jtalk.Ptr, value uint64) error {
	v, err := view(p, 8)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint64(v, value)
	return nil
}

func (b *Backend) ReadCString(p jtalk.Ptr) ([]byte, error) {
	if p == 0 {
		return nil, errors.OutOfBounds(errors.PhaseNative, 0, 1)
	}
	var out []byte
	for addr := uintptr(p); ; addr++ {
		c := *(*byte)(unsafe.Pointer(addr))
		if c == 0 {
			return out, nil
		}
		out = append(out, c)
	}
}
