// Package errors provides structured error types for the jtalk bindings.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the failing native function, the offending filename,
// a detail message and an optional cause.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLoad, errors.KindUnsuccessful).
//		Function("Mecab_load").
//		Detail("dictionary %s", dir).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Unsuccessful(errors.PhaseLoad, "Mecab_load")
//	err := errors.Nul(errors.PhaseLoad, "/dic\x00")
//
// Is matches on Phase and Kind only, so a package-level sentinel built
// from the same pair works with errors.Is:
//
//	var ErrRange = errors.New(errors.PhaseNormalize, errors.KindRange).Build()
//
// Precondition violations (using a resource before Initialize, initializing
// twice) are programming errors and panic instead of returning an Error.
package errors
