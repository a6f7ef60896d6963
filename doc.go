// Package jtalk provides Go bindings for the open_jtalk Japanese
// text-analysis toolkit.
//
// The analysis itself (MeCab morphological analysis, NJD accent and
// pronunciation passes, JPCommon label generation) runs inside the native
// collaborator. This module owns the boundary: it initializes and clears the
// collaborator's structs exactly once, allocates and frees buffers on the
// collaborator's heap, and turns the NJD linked list into owned Go values and
// back.
//
// # Architecture Overview
//
//	jtalk/               Root package with the Ptr, Memory and Allocator contract
//	├── native/          Typed C call surface, struct layouts, C strings
//	│   ├── wasm/        open_jtalk compiled to WASI, hosted by wazero
//	│   ├── dynlib/      shared libopenjtalk loaded with purego
//	│   └── sim/         in-process collaborator over a simulated heap
//	├── resource/        Resource interface and the Managed scope guard
//	├── text2mecab/      Fixed-buffer text normalizer
//	├── mecab/           Analyzer binding and mecab_dict_index pass-through
//	├── njd/             NJD list bridge (extract/transform/rebuild)
//	├── jpcommon/        Label generation and label sequences
//	├── labeler/         End-to-end text to full-context label pipeline
//	├── errors/          Structured error types
//	└── cmd/jtalk/       Command line front end
//
// # Quick Start
//
//	backend, err := wasm.Open(ctx, wasmBytes, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close(ctx)
//
//	l, err := labeler.New(native.New(backend), labeler.Config{DictDir: "/dic"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Close()
//
//	labels, err := l.ExtractFullContext("こんにちは")
//
// # Resource Lifecycle
//
// Every native struct is wrapped by a type implementing resource.Resource.
// Acquire it through resource.Acquire and release it with Close:
//
//	m, err := resource.Acquire(mecab.New(lib))
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
// Initializing twice, clearing an uninitialized resource, or using a
// resource after Close are programming errors and panic.
//
// # Thread Safety
//
// Resources are NOT thread-safe and must be owned by a single goroutine.
// labeler.Labeler serializes access with a mutex and may be shared.
package jtalk
