// Package dynlib loads a shared open_jtalk library (libopenjtalk.so,
// libopenjtalk.dylib) into the process with purego, without cgo.
//
// The library must export the functions in native.Symbols; malloc and free
// are resolved through the library so strings the bindings allocate are
// freed by the same allocator the library uses.
//
// Memory is the host address space. Unlike the wasm and sim backends there
// is no bounds checking: a bad pointer is a crash, not an error.
//
// Only Linux and macOS are supported; Open returns an unsupported error
// elsewhere.
package dynlib
