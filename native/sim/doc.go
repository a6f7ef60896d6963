// Package sim is an in-process stand-in for the open_jtalk C library.
//
// It exposes the same C surface as the wasm and dynlib backends over a
// checked heap (see Heap): every struct, string and array the bindings touch
// lives in simulated memory with C layouts, so ownership mistakes in the
// bindings (leaks, double frees, reads after free) show up as errors or
// live-block counts instead of silent corruption.
//
// Morphological analysis uses kagome with the IPA dictionary. The NJD
// passes and label generation are simplified but deterministic; they are
// good enough to exercise the bindings, not to drive a synthesizer.
//
//	b := sim.New()
//	lib := native.New(b)
//	defer b.Close(ctx)
package sim
