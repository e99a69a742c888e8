package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseInit     Phase = "init"     // interpreter initialization
	PhaseRegister Phase = "register" // module function registration
	PhaseExec     Phase = "exec"     // script execution
	PhaseConfig   Phase = "config"   // host manifest loading
	PhaseRuntime  Phase = "runtime"  // other runtime operations
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownModule      Kind = "unknown_module"
	KindUnknownConvention  Kind = "unknown_convention"
	KindNotInitialized     Kind = "not_initialized"
	KindAlreadyInitialized Kind = "already_initialized"
	KindScriptError        Kind = "script_error"
	KindInvalidInput       Kind = "invalid_input"
	KindNotFound           Kind = "not_found"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Module   string
	Function string
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Module != "" || e.Function != "" {
		b.WriteString(" at ")
		b.WriteString(e.Module)
		if e.Function != "" {
			if e.Module != "" {
				b.WriteByte('.')
			}
			b.WriteString(e.Function)
		}
	}

	if e.Detail != "" {
		b.WriteString(": ")
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

// Module sets the extension-module name involved
func (b *Builder) Module(name string) *Builder {
	b.err.Module = name
	return b
}

// Function sets the function name involved
func (b *Builder) Function(name string) *Builder {
	b.err.Function = name
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

// UnknownModule creates an error for a module identifier the builtins
// lookup does not recognize
func UnknownModule(phase Phase, id int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownModule,
		Detail: fmt.Sprintf("unknown extension module value %d", id),
	}
}

// UnknownConvention creates an error for a calling-convention tag outside
// the recognized set
func UnknownConvention(phase Phase, conv int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownConvention,
		Detail: fmt.Sprintf("unknown calling convention value %d", conv),
	}
}

// NotInitialized creates an error for use of a component before Init or
// after Close
func NotInitialized(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: what + " is not initialized",
	}
}

// AlreadyInitialized creates an error for a second Init call
func AlreadyInitialized(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAlreadyInitialized,
		Detail: what + " is already initialized",
	}
}

// InvalidInput creates a generic invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Script wraps an error raised by executing script code
func Script(cause error, chunk string) *Error {
	return &Error{
		Phase:  PhaseExec,
		Kind:   KindScriptError,
		Detail: chunk,
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
