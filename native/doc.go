// Package native provides the typed call surface of the open_jtalk
// collaborator.
//
// A Backend exposes the collaborator's memory, its malloc/free heap and a
// way to call an exported C function by symbol. Lib wraps a Backend with one
// method per C function and with helpers that read and write struct fields
// according to the Layout for the backend's pointer size.
//
// # Backends
//
//	native/wasm    open_jtalk compiled to a WASI module, run by wazero
//	native/dynlib  shared libopenjtalk loaded with purego (dlopen/dlsym)
//	native/sim     in-process collaborator over a simulated heap
//
// # Struct Layouts
//
// The bindings only ever touch the fields of NJD, NJDNode and Mecab that
// the C headers declare. Offsets follow natural C alignment:
//
//	Struct     wasm32 size   64-bit size
//	────────────────────────────────────
//	Mecab      20            40
//	NJD        8             16
//	NJDNode    64            120
//	JPCommon   12            24
//
// # Faults
//
// Errors raised by Call or by Memory (a trap, an out-of-bounds access) mean
// the collaborator or the bindings broke a contract. Lib panics with a
// *errors.Error in that case instead of returning it.
package native
