package labeler

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/jtalk/errors"
	"github.com/wippyai/jtalk/native"
	"github.com/wippyai/jtalk/native/dynlib"
	"github.com/wippyai/jtalk/native/sim"
	"github.com/wippyai/jtalk/native/wasm"
)

// BackendKind selects how the open_jtalk collaborator is reached.
type BackendKind string

const (
	BackendSim    BackendKind = "sim"    // in-process simulation
	BackendWasm   BackendKind = "wasm"   // open_jtalk compiled to WASI
	BackendDynlib BackendKind = "dynlib" // shared libopenjtalk
)

// BackendConfig holds configuration for OpenBackend
type BackendConfig struct {
	Kind BackendKind

	// Path is the .wasm module or shared library. Unused by the sim.
	Path string

	// FSRoot is the host directory the wasm guest sees as "/".
	FSRoot string

	// Stdout receives Mecab_print output (sim and wasm).
	Stdout io.Writer

	// MemoryLimitPages caps wasm linear memory.
	MemoryLimitPages uint32
}

// OpenBackend loads the configured collaborator. An empty Kind means sim.
func OpenBackend(ctx context.Context, cfg BackendConfig) (native.Backend, error) {
	Logger().Debug("opening backend",
		zap.String("kind", string(cfg.Kind)),
		zap.String("path", cfg.Path))

	switch cfg.Kind {
	case "", BackendSim:
		var opts []sim.Option
		if cfg.Stdout != nil {
			opts = append(opts, sim.WithStdout(cfg.Stdout))
		}
		return sim.New(opts...), nil

	case BackendWasm:
		if cfg.Path == "" {
			return nil, errors.InvalidInput(errors.PhaseLoad, "wasm backend requires a module path")
		}
		wasmBytes, err := os.ReadFile(cfg.Path)
		if err != nil {
			return nil, errors.Load("read "+cfg.Path, err)
		}
		b, err := wasm.Open(ctx, wasmBytes, &wasm.Config{
			MemoryLimitPages: cfg.MemoryLimitPages,
			FSRoot:           cfg.FSRoot,
			Stdout:           cfg.Stdout,
			Stderr:           os.Stderr,
		})
		if err != nil {
			return nil, err
		}
		return b, nil

	case BackendDynlib:
		if cfg.Path == "" {
			return nil, errors.InvalidInput(errors.PhaseLoad, "dynlib backend requires a library path")
		}
		b, err := dynlib.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return b, nil

	default:
		return nil, errors.Unsupported(errors.PhaseLoad, "backend "+string(cfg.Kind))
	}
}
