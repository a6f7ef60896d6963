package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseInit      Phase = "init"      // resource initialization
	PhaseNormalize Phase = "normalize" // text2mecab
	PhaseLoad      Phase = "load"      // dictionary and library loading
	PhaseAnalyze   Phase = "analyze"   // morphological analysis
	PhaseBridge    Phase = "bridge"    // NJD list extract/rebuild
	PhaseLabel     Phase = "label"     // label generation
	PhaseIndex     Phase = "index"     // dictionary indexing
	PhaseNative    Phase = "native"    // raw calls into the collaborator
)

// Kind categorizes the error
type Kind string

const (
	KindRange           Kind = "range"
	KindInvalidArgument Kind = "invalid_argument"
	KindUnsuccessful    Kind = "unsuccessful"
	KindNul             Kind = "nul"
	KindNotInitialized  Kind = "not_initialized"
	KindAllocation      Kind = "allocation"
	KindInvalidUTF8     Kind = "invalid_utf8"
	KindMissingSymbol   Kind = "missing_symbol"
	KindTrap            Kind = "trap"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindUnsupported     Kind = "unsupported"
	KindInvalidInput    Kind = "invalid_input"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Function string
	Filename string
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Function != "" {
		b.WriteString(": `")
		b.WriteString(e.Function)
		b.WriteString("` failed")
	}

	if e.Filename != "" {
		if e.Function != "" {
			b.WriteString(", ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString("file ")
		b.WriteString(fmt.Sprintf("%q", e.Filename))
	}

	if e.Detail != "" {
		if e.Function != "" || e.Filename != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Function sets the native function that failed
func (b *Builder) Function(name string) *Builder {
	b.err.Function = name
	return b
}

// Filename sets the offending filename
func (b *Builder) Filename(name string) *Builder {
	b.err.Filename = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Unsuccessful creates an error for a native call that reported failure
func Unsuccessful(phase Phase, function string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindUnsuccessful,
		Function: function,
	}
}

// Nul creates an error for a filename that cannot be passed as a C string
func Nul(phase Phase, filename string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindNul,
		Filename: filename,
		Detail:   "file name contained a NUL byte",
	}
}

// Range creates a bounded-buffer error
func Range(phase Phase, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRange,
		Detail: fmt.Sprintf("output does not fit in %d bytes", limit),
		Value:  limit,
	}
}

// InvalidArgument creates an error for input the collaborator rejects
func InvalidArgument(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidArgument,
		Detail: detail,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, function string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidUTF8,
		Function: function,
		Detail:   fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
		Value:  size,
	}
}

// OutOfBounds creates a native memory access error
func OutOfBounds(phase Phase, addr uint64, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("memory access out of bounds: addr=%#x, length=%d", addr, length),
		Value:  addr,
	}
}

// Trap creates an error for a fault raised inside a native call
func Trap(function string, cause error) *Error {
	return &Error{
		Phase:    PhaseNative,
		Kind:     KindTrap,
		Function: function,
		Cause:    cause,
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Load creates a library or dictionary loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidInput,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// MissingSymbolsError is returned when a native library lacks exported functions
type MissingSymbolsError struct {
	Library string
	Symbols []string
}

// NewMissingSymbolsError creates an error listing every symbol the library lacks
func NewMissingSymbolsError(library string, symbols []string) *MissingSymbolsError {
	return &MissingSymbolsError{
		Library: library,
		Symbols: append([]string(nil), symbols...),
	}
}

// family groups open_jtalk symbols by the subsystem that exports them
func family(symbol string) string {
	lower := strings.ToLower(symbol)
	switch {
	case strings.HasPrefix(lower, "mecab"):
		return "mecab"
	case strings.HasPrefix(lower, "njd"):
		return "njd"
	case strings.HasPrefix(lower, "jpcommon"):
		return "jpcommon"
	case strings.HasPrefix(lower, "text2mecab"):
		return "text2mecab"
	default:
		return "libc"
	}
}

func (e *MissingSymbolsError) Error() string {
	if len(e.Symbols) == 0 {
		return "[load] missing_symbol: no symbols specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("missing %d native symbol(s)", len(e.Symbols)))
	if e.Library != "" {
		b.WriteString(" in ")
		b.WriteString(e.Library)
	}
	b.WriteString(":\n")

	// Group by subsystem for cleaner output
	bySub := make(map[string][]string)
	var order []string
	for _, sym := range e.Symbols {
		f := family(sym)
		if _, exists := bySub[f]; !exists {
			order = append(order, f)
		}
		bySub[f] = append(bySub[f], sym)
	}

	for _, f := range order {
		b.WriteString("\n  ")
		b.WriteString(f)
		b.WriteString(":\n")
		for _, sym := range bySub[f] {
			b.WriteString("    - ")
			b.WriteString(sym)
			b.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Is reports whether target matches this error type
func (e *MissingSymbolsError) Is(target error) bool {
	_, ok := target.(*MissingSymbolsError)
	return ok
}

// Is, As and Join forward to the standard library so callers need a single
// errors import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

func Join(errs ...error) error { return stderrors.Join(errs...) }
