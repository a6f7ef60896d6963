package sim

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/jtalk"
	"github.com/wippyai/jtalk/errors"
	"github.com/wippyai/jtalk/native"
)

// Backend is an in-process open_jtalk collaborator. It implements
// native.Backend over a checked Heap.
type Backend struct {
	heap      *Heap
	lib       *native.Lib
	stdout    io.Writer
	mecabs    map[jtalk.Ptr]*mecabState
	jpcommons map[jtalk.Ptr]*jpcommonState
	ptrSize   uint32
	mu        sync.Mutex
	closed    bool
}

var _ native.Backend = (*Backend)(nil)

// Option configures a Backend.
type Option func(*Backend)

// WithPointerSize simulates a collaborator with sizeof(void *) == n
// (4 or 8). The default is 4, matching the wasm32 build.
func WithPointerSize(n uint32) Option {
	return func(b *Backend) { b.ptrSize = n }
}

// WithStdout sets where Mecab_print writes. Defaults to io.Discard.
func WithStdout(w io.Writer) Option {
	return func(b *Backend) { b.stdout = w }
}

// WithHeapLimit caps the simulated heap at n bytes.
func WithHeapLimit(n uint32) Option {
	return func(b *Backend) { b.heap = NewHeap(n) }
}

// New creates a simulated collaborator.
func New(opts ...Option) *Backend {
	b := &Backend{
		stdout:    io.Discard,
		mecabs:    make(map[jtalk.Ptr]*mecabState),
		jpcommons: make(map[jtalk.Ptr]*jpcommonState),
		ptrSize:   4,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.heap == nil {
		b.heap = NewHeap(0)
	}
	b.lib = native.New(b)
	return b
}

// Heap returns the simulated heap, for leak assertions.
func (b *Backend) Heap() *Heap { return b.heap }

func (b *Backend) PointerSize() uint32 { return b.ptrSize }

func (b *Backend) Read(p jtalk.Ptr, length uint32) ([]byte, error) { return b.heap.Read(p, length) }
func (b *Backend) Write(p jtalk.Ptr, data []byte) error            { return b.heap.Write(p, data) }
func (b *Backend) ReadU32(p jtalk.Ptr) (uint32, error)             { return b.heap.ReadU32(p) }
func (b *Backend) ReadU64(p jtalk.Ptr) (uint64, error)             { return b.heap.ReadU64(p) }
func (b *Backend) WriteU32(p jtalk.Ptr, v uint32) error            { return b.heap.WriteU32(p, v) }
func (b *Backend) WriteU64(p jtalk.Ptr, v uint64) error            { return b.heap.WriteU64(p, v) }
func (b *Backend) ReadCString(p jtalk.Ptr) ([]byte, error)         { return b.heap.ReadCString(p) }
func (b *Backend) Malloc(size uint32) (jtalk.Ptr, error)           { return b.heap.Malloc(size) }
func (b *Backend) Free(p jtalk.Ptr)                                { b.heap.Free(p) }

// Close reports leaked blocks to the logger. It never fails.
func (b *Backend) Close(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	if live := b.heap.Live(); live > 0 {
		Logger().Warn("sim backend closed with live allocations", zap.Int("blocks", live))
	}
	return nil
}

func ptrArg(args []uint64, i int) jtalk.Ptr { return jtalk.Ptr(args[i]) }

func intArg(args []uint64, i int) int32 { return int32(uint32(args[i])) }

func boolResult(ok bool) uint64 {
	if ok {
		return 1
	}
	return 0
}

func intResult(v int32) uint64 { return uint64(uint32(v)) }

var arity = map[native.Symbol]int{
	native.SymMalloc: 1, native.SymFree: 1, native.SymText2Mecab: 3,
	native.SymMecabInitialize: 1, native.SymMecabLoad: 2, native.SymMecabLoadWithUserdic: 3,
	native.SymMecabAnalysis: 2, native.SymMecabGetFeature: 1, native.SymMecabGetSize: 1,
	native.SymMecabRefresh: 1, native.SymMecabPrint: 1, native.SymMecabClear: 1,
	native.SymMecabDictIndex: 2, native.SymMecab2NJD: 3,
	native.SymNJDInitialize: 1, native.SymNJDClear: 1, native.SymNJDRefresh: 1,
	native.SymNJDPushNode: 2, native.SymNJDGetSize: 1, native.SymNJDNodeInitialize: 1,
	native.SymNJDSetPronunciation: 1, native.SymNJDSetDigit: 1, native.SymNJDSetAccentType: 1,
	native.SymNJDSetAccentPhrase: 1, native.SymNJDSetUnvoicedVowel: 1, native.SymNJDSetLongVowel: 1,
	native.SymNJD2JPCommon: 2, native.SymJPCommonInitialize: 1, native.SymJPCommonClear: 1,
	native.SymJPCommonRefresh: 1, native.SymJPCommonMakeLabel: 1,
	native.SymJPCommonGetLabelSize: 1, native.SymJPCommonGetLabelFeats: 1,
}

// Call dispatches to the simulated C function. A fault inside the
// function (bad pointer, use after free) is returned as an error, the way a
// wasm trap would be.
func (b *Backend) Call(sym native.Symbol, args ...uint64) (result uint64, err error) {
	n, ok := arity[sym]
	if !ok {
		return 0, errors.NewMissingSymbolsError("sim", []string{string(sym)})
	}
	if len(args) != n {
		return 0, errors.InvalidInput(errors.PhaseNative,
			fmt.Sprintf("%s takes %d arguments, got %d", sym, n, len(args)))
	}

	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("%v", r)
			}
		}
	}()

	switch sym {
	case native.SymMalloc:
		p, err := b.heap.Malloc(uint32(args[0]))
		if err != nil {
			return 0, nil
		}
		return uint64(p), nil
	case native.SymFree:
		b.heap.Free(ptrArg(args, 0))
	case native.SymText2Mecab:
		return intResult(b.text2mecab(ptrArg(args, 0), uint32(args[1]), ptrArg(args, 2))), nil

	case native.SymMecabInitialize:
		return boolResult(b.mecabInitialize(ptrArg(args, 0))), nil
	case native.SymMecabLoad:
		return boolResult(b.mecabLoad(ptrArg(args, 0), ptrArg(args, 1), 0)), nil
	case native.SymMecabLoadWithUserdic:
		return boolResult(b.mecabLoad(ptrArg(args, 0), ptrArg(args, 1), ptrArg(args, 2))), nil
	case native.SymMecabAnalysis:
		return boolResult(b.mecabAnalysis(ptrArg(args, 0), ptrArg(args, 1))), nil
	case native.SymMecabGetFeature:
		m := b.mecab(ptrArg(args, 0))
		return uint64(b.lib.ReadPtr(m + jtalk.Ptr(b.lib.Layout().MecabFeature))), nil
	case native.SymMecabGetSize:
		m := b.mecab(ptrArg(args, 0))
		return intResult(b.lib.ReadInt(m + jtalk.Ptr(b.lib.Layout().MecabSize))), nil
	case native.SymMecabRefresh:
		b.mecabRefresh(ptrArg(args, 0))
		return 1, nil
	case native.SymMecabPrint:
		return boolResult(b.mecabPrint(ptrArg(args, 0))), nil
	case native.SymMecabClear:
		return boolResult(b.mecabClear(ptrArg(args, 0))), nil
	case native.SymMecabDictIndex:
		return intResult(b.dictIndex(intArg(args, 0), ptrArg(args, 1))), nil
	case native.SymMecab2NJD:
		b.mecab2njd(ptrArg(args, 0), ptrArg(args, 1), intArg(args, 2))

	case native.SymNJDInitialize:
		b.njdInitialize(ptrArg(args, 0))
	case native.SymNJDClear, native.SymNJDRefresh:
		b.njdClear(ptrArg(args, 0))
	case native.SymNJDPushNode:
		b.njdPushNode(ptrArg(args, 0), ptrArg(args, 1))
	case native.SymNJDGetSize:
		return intResult(int32(len(b.njdNodes(ptrArg(args, 0))))), nil
	case native.SymNJDNodeInitialize:
		b.nodeInitialize(ptrArg(args, 0))
	case native.SymNJDSetPronunciation:
		b.setPronunciation(ptrArg(args, 0))
	case native.SymNJDSetDigit:
		b.setDigit(ptrArg(args, 0))
	case native.SymNJDSetAccentType:
		b.setAccentType(ptrArg(args, 0))
	case native.SymNJDSetAccentPhrase:
		b.setAccentPhrase(ptrArg(args, 0))
	case native.SymNJDSetUnvoicedVowel:
		b.setUnvoicedVowel(ptrArg(args, 0))
	case native.SymNJDSetLongVowel:
		b.setLongVowel(ptrArg(args, 0))

	case native.SymNJD2JPCommon:
		b.njd2jpcommon(ptrArg(args, 0), ptrArg(args, 1))
	case native.SymJPCommonInitialize:
		b.jpcommonInitialize(ptrArg(args, 0))
	case native.SymJPCommonClear:
		b.jpcommonClear(ptrArg(args, 0))
	case native.SymJPCommonRefresh:
		b.jpcommonRefresh(ptrArg(args, 0))
	case native.SymJPCommonMakeLabel:
		b.jpcommonMakeLabel(ptrArg(args, 0))
	case native.SymJPCommonGetLabelSize:
		return intResult(b.jpcommon(ptrArg(args, 0)).size), nil
	case native.SymJPCommonGetLabelFeats:
		return uint64(b.jpcommon(ptrArg(args, 0)).labels), nil
	}
	return 0, nil
}
