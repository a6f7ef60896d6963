// Package wasm runs open_jtalk compiled to WebAssembly under wazero.
//
// The module must be a WASI build (wasi-sdk or emscripten STANDALONE_WASM)
// exporting linear memory as "memory", the libc allocator as "malloc" and
// "free", and the open_jtalk functions listed in native.Symbols. Reactor
// modules have their "_initialize" export called once after instantiation;
// "_start" is never run.
//
//	wasmBytes, _ := os.ReadFile("open_jtalk.wasm")
//	b, err := wasm.Open(ctx, wasmBytes, &wasm.Config{FSRoot: "/"})
//	if err != nil {
//	    return err
//	}
//	defer b.Close(ctx)
//	lib := native.New(b)
//
// # Filesystem
//
// Config.FSRoot is mounted at the guest's "/", so dictionary paths are
// guest paths relative to that root. With the default root "/", host
// absolute paths work unchanged.
//
// # Thread Safety
//
// A wasm instance runs one call at a time. Backend serializes Call, Malloc
// and Free with a mutex; memory accessors are not synchronized with calls.
package wasm
