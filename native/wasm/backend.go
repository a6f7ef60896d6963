package wasm

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/jtalk"
	"github.com/wippyai/jtalk/errors"
	"github.com/wippyai/jtalk/native"
)

const (
	memoryExport     = "memory"
	initializeExport = "_initialize"
	libraryName      = "open_jtalk.wasm"
)

// Config holds configuration for Open
type Config struct {
	// MemoryLimitPages caps linear memory in 64KiB pages. 0 means the
	// wazero default (65536 pages = 4GiB).
	MemoryLimitPages uint32

	// FSRoot is the host directory mounted at the guest's "/".
	// Empty means "/".
	FSRoot string

	// Stdout and Stderr receive the guest's output (Mecab_print writes to
	// stdout). Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// Backend is an instantiated open_jtalk wasm module.
type Backend struct {
	runtime  wazero.Runtime
	module   api.Module
	memory   *Memory
	funcs    map[native.Symbol]api.Function
	ctx      context.Context
	stackBuf []uint64
	mu       sync.Mutex
	closed   bool
}

var _ native.Backend = (*Backend)(nil)

// Open compiles and instantiates wasmBytes. Every symbol in native.Symbols
// must be exported; otherwise a *errors.MissingSymbolsError lists all of the
// missing ones. ctx is used for every later call into the module.
func Open(ctx context.Context, wasmBytes []byte, cfg *Config) (*Backend, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	b, err := open(ctx, rt, wasmBytes, cfg)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}
	return b, nil
}

func open(ctx context.Context, rt wazero.Runtime, wasmBytes []byte, cfg *Config) (*Backend, error) {
	compiled, err := rt.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, errors.Load("compile failed", err)
	}

	exports := compiled.ExportedFunctions()
	missing := native.Missing(func(s native.Symbol) bool {
		_, ok := exports[string(s)]
		return ok
	})
	if _, ok := compiled.ExportedMemories()[memoryExport]; !ok {
		missing = append(missing, memoryExport)
	}
	if len(missing) > 0 {
		return nil, errors.NewMissingSymbolsError(libraryName, missing)
	}

	if err := instantiateHost(ctx, rt); err != nil {
		return nil, errors.Load("instantiate WASI", err)
	}

	root := cfg.FSRoot
	if root == "" {
		root = "/"
	}
	modCfg := wazero.NewModuleConfig().
		WithName(libraryName).
		WithStartFunctions().
		WithFSConfig(wazero.NewFSConfig().WithDirMount(root, "/")).
		WithArgs(libraryName)
	if cfg.Stdout != nil {
		modCfg = modCfg.WithStdout(cfg.Stdout)
	}
	if cfg.Stderr != nil {
		modCfg = modCfg.WithStderr(cfg.Stderr)
	}

	mod, err := rt.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		return nil, errors.Load("instantiate failed", err)
	}

	if init := mod.ExportedFunction(initializeExport); init != nil {
		if _, err := init.Call(ctx); err != nil {
			_ = mod.Close(ctx)
			return nil, errors.Load(initializeExport+" failed", err)
		}
	}

	b := &Backend{
		runtime:  rt,
		module:   mod,
		memory:   WrapMemory(mod.ExportedMemory(memoryExport)),
		funcs:    make(map[native.Symbol]api.Function, len(native.Symbols)),
		ctx:      ctx,
		stackBuf: make([]uint64, 4),
	}
	for _, s := range native.Symbols {
		b.funcs[s] = mod.ExportedFunction(string(s))
	}

	Logger().Debug("open_jtalk module instantiated",
		zap.Int("exports", len(exports)),
		zap.String("fs_root", root))
	return b, nil
}

func (b *Backend) PointerSize() uint32 { return 4 }

func (b *Backend) Read(p jtalk.Ptr, length uint32) ([]byte, error) { return b.memory.Read(p, length) }
func (b *Backend) Write(p jtalk.Ptr, data []byte) error            { return b.memory.Write(p, data) }
func (b *Backend) ReadU32(p jtalk.Ptr) (uint32, error)             { return b.memory.ReadU32(p) }
func (b *Backend) ReadU64(p jtalk.Ptr) (uint64, error)             { return b.memory.ReadU64(p) }
func (b *Backend) WriteU32(p jtalk.Ptr, v uint32) error            { return b.memory.WriteU32(p, v) }
func (b *Backend) WriteU64(p jtalk.Ptr, v uint64) error            { return b.memory.WriteU64(p, v) }
func (b *Backend) ReadCString(p jtalk.Ptr) ([]byte, error)         { return b.memory.ReadCString(p) }

// Call invokes an exported function. The stack buffer is reused across
// calls; results are read before the lock is released.
func (b *Backend) Call(sym native.Symbol, args ...uint64) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, errors.NotInitialized(errors.PhaseNative, libraryName)
	}
	fn, ok := b.funcs[sym]
	if !ok || fn == nil {
		return 0, errors.NewMissingSymbolsError(libraryName, []string{string(sym)})
	}

	def := fn.Definition()
	params, results := len(def.ParamTypes()), len(def.ResultTypes())
	if len(args) != params {
		return 0, errors.InvalidInput(errors.PhaseNative,
			fmt.Sprintf("%s takes %d arguments, got %d", sym, params, len(args)))
	}

	n := max(params, results)
	if cap(b.stackBuf) < n {
		b.stackBuf = make([]uint64, n)
	}
	stack := b.stackBuf[:n]
	copy(stack, args)
	if err := fn.CallWithStack(b.ctx, stack); err != nil {
		return 0, err
	}
	if results == 0 {
		return 0, nil
	}
	return stack[0], nil
}

// Malloc allocates with the module's malloc.
func (b *Backend) Malloc(size uint32) (jtalk.Ptr, error) {
	r, err := b.Call(native.SymMalloc, uint64(size))
	if err != nil {
		return 0, errors.Wrap(errors.PhaseNative, errors.KindAllocation, err, "malloc trapped")
	}
	if uint32(r) == 0 {
		return 0, errors.AllocationFailed(errors.PhaseNative, size)
	}
	return jtalk.Ptr(uint32(r)), nil
}

// Free releases a block with the module's free. Failures are logged.
func (b *Backend) Free(p jtalk.Ptr) {
	if p == 0 {
		return
	}
	if _, err := b.Call(native.SymFree, uint64(p)); err != nil {
		Logger().Warn("free failed",
			zap.Uint64("ptr", uint64(p)),
			zap.Error(err))
	}
}

// Close tears down the module and its runtime.
func (b *Backend) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	b.funcs = nil
	b.stackBuf = nil
	return b.runtime.Close(ctx)
}
