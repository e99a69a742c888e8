// Package errors provides structured error types for the lua-runtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category). The Error type carries the module and function names
// involved, a human-readable detail and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRegister, errors.KindUnknownModule).
//		Module("tracker").
//		Function("emit").
//		Detail("module identifier is not known to builtins").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownModule(errors.PhaseRegister, 42)
//	err := errors.NotInitialized(errors.PhaseExec, "interpreter")
//
// All errors implement the standard error interface and support
// errors.Is/As.
package errors
