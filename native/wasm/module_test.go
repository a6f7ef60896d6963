package wasm

import (
	"context"
	"testing"

	"github.com/wippyai/jtalk/errors"
	"github.com/wippyai/jtalk/native"
)

// Hand-assembled stand-in for open_jtalk.wasm: every symbol is exported,
// malloc is a bump allocator over a mutable global, free is a no-op,
// Mecab_get_size returns 7 and JPCommon_make_label traps.

const (
	opUnreachable = 0x00
	opEnd         = 0x0b
	opLocalGet    = 0x20
	opGlobalGet   = 0x23
	opGlobalSet   = 0x24
	opI32Const    = 0x41
	opI32Add      = 0x6a
	opI32And      = 0x71
	valI32        = 0x7f
	heapStart     = 1024
)

type stubFunc struct {
	sym    native.Symbol
	params int
	result bool
	body   []byte
}

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func sleb(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func section(id byte, items ...[]byte) []byte {
	body := uleb(uint32(len(items)))
	for _, it := range items {
		body = append(body, it...)
	}
	return append(append([]byte{id}, uleb(uint32(len(body)))...), body...)
}

func name(s string) []byte {
	return append(uleb(uint32(len(s))), s...)
}

func stubFuncs() []stubFunc {
	params := map[native.Symbol]int{
		native.SymText2Mecab: 3, native.SymMecabLoad: 2, native.SymMecabLoadWithUserdic: 3,
		native.SymMecabAnalysis: 2, native.SymMecabDictIndex: 2, native.SymMecab2NJD: 3,
		native.SymNJDPushNode: 2, native.SymNJD2JPCommon: 2,
	}
	returns := map[native.Symbol]bool{
		native.SymMalloc: true, native.SymText2Mecab: true,
		native.SymMecabInitialize: true, native.SymMecabLoad: true, native.SymMecabLoadWithUserdic: true,
		native.SymMecabAnalysis: true, native.SymMecabGetFeature: true, native.SymMecabGetSize: true,
		native.SymMecabRefresh: true, native.SymMecabPrint: true, native.SymMecabClear: true,
		native.SymMecabDictIndex: true, native.SymNJDGetSize: true,
		native.SymJPCommonGetLabelSize: true, native.SymJPCommonGetLabelFeats: true,
	}

	funcs := make([]stubFunc, 0, len(native.Symbols))
	for _, sym := range native.Symbols {
		f := stubFunc{sym: sym, params: 1, result: returns[sym]}
		if n, ok := params[sym]; ok {
			f.params = n
		}
		switch {
		case sym == native.SymMalloc:
			// old := heap; heap = (heap + size + 7) & -8; return old
			f.body = []byte{
				opGlobalGet, 0,
				opGlobalGet, 0, opLocalGet, 0, opI32Add,
				opI32Const, 7, opI32Add,
				opI32Const, 0x78, opI32And,
				opGlobalSet, 0,
			}
		case sym == native.SymMecabGetSize:
			f.body = []byte{opI32Const, 7}
		case sym == native.SymJPCommonMakeLabel:
			f.body = []byte{opUnreachable}
		case f.result:
			f.body = []byte{opI32Const, 0}
		}
		funcs = append(funcs, f)
	}
	return funcs
}

func stubModule() []byte {
	funcs := stubFuncs()

	var types, indices, exports, code [][]byte
	for i, f := range funcs {
		typ := append([]byte{0x60}, uleb(uint32(f.params))...)
		for range f.params {
			typ = append(typ, valI32)
		}
		if f.result {
			typ = append(typ, 1, valI32)
		} else {
			typ = append(typ, 0)
		}
		types = append(types, typ)
		indices = append(indices, uleb(uint32(i)))
		exports = append(exports, append(append(name(string(f.sym)), 0x00), uleb(uint32(i))...))

		body := append(append([]byte{0}, f.body...), opEnd)
		code = append(code, append(uleb(uint32(len(body))), body...))
	}
	exports = append(exports, append(name(memoryExport), 0x02, 0))

	global := append([]byte{valI32, 0x01, opI32Const}, sleb(heapStart)...)
	global = append(global, opEnd)

	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	out = append(out, section(1, types...)...)
	out = append(out, section(3, indices...)...)
	out = append(out, section(5, []byte{0x00, 0x01})...)
	out = append(out, section(6, global)...)
	out = append(out, section(7, exports...)...)
	out = append(out, section(10, code...)...)
	return out
}

func openStub(t *testing.T) *Backend {
	t.Helper()
	ctx := context.Background()
	b, err := Open(ctx, stubModule(), &Config{FSRoot: t.TempDir(), MemoryLimitPages: 16})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = b.Close(ctx) })
	return b
}

func TestSleb(t *testing.T) {
	tests := []struct {
		v    int32
		want []byte
	}{
		{0, []byte{0x00}},
		{7, []byte{0x07}},
		{-8, []byte{0x78}},
		{heapStart, []byte{0x80, 0x08}},
	}
	for _, tt := range tests {
		if got := sleb(tt.v); string(got) != string(tt.want) {
			t.Errorf("sleb(%d) = %x, want %x", tt.v, got, tt.want)
		}
	}
}

func TestOpen_Stub(t *testing.T) {
	b := openStub(t)

	if b.PointerSize() != 4 {
		t.Errorf("expected pointer size 4, got %d", b.PointerSize())
	}

	got, err := b.Call(native.SymMecabGetSize, 0)
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if got != 7 {
		t.Errorf("expected 7, got %d", got)
	}

	if r, err := b.Call(native.SymNJDRefresh, 0); err != nil || r != 0 {
		t.Errorf("void call: %d %v", r, err)
	}
}

func TestBackend_Malloc(t *testing.T) {
	b := openStub(t)
	lib := native.New(b)

	p := lib.Malloc(10)
	q := lib.Malloc(3)
	if p != heapStart {
		t.Errorf("first block at %d, expected %d", p, heapStart)
	}
	if q-p != 16 {
		t.Errorf("blocks %d and %d not 8-byte aligned apart", p, q)
	}

	s, ok := lib.AllocCString("東京")
	if !ok {
		t.Fatal("AllocCString rejected a valid string")
	}
	if got := string(lib.CBytes(s)); got != "東京" {
		t.Errorf("round trip %q", got)
	}
	lib.Free(s)
	lib.Free(q)
	lib.Free(p)
}

func TestBackend_CallErrors(t *testing.T) {
	b := openStub(t)

	_, err := b.Call(native.SymMecabGetSize)
	if !errors.Is(err, &errors.Error{Phase: errors.PhaseNative, Kind: errors.KindInvalidInput}) {
		t.Errorf("arity mismatch: got %v", err)
	}

	if _, err := b.Call(native.SymJPCommonMakeLabel, 0); err == nil {
		t.Error("expected trap error")
	}

	var missing *errors.MissingSymbolsError
	if _, err := b.Call("Mecab_unknown", 0); !errors.As(err, &missing) {
		t.Errorf("unknown symbol: got %v", err)
	}

	ctx := context.Background()
	if err := b.Close(ctx); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(ctx); err != nil {
		t.Errorf("second Close: %v", err)
	}
	_, err = b.Call(native.SymMecabGetSize, 0)
	if !errors.Is(err, &errors.Error{Phase: errors.PhaseNative, Kind: errors.KindNotInitialized}) {
		t.Errorf("call after Close: got %v", err)
	}
}
