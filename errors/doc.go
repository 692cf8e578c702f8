// Package errors provides structured error types for the script-runtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: method name, script path, expected type, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseMarshal, errors.KindTypeConversion).
//		Method("moveProp").
//		Expected("int").
//		Detail("cannot convert string to integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ArgCount("createCube", 3, 1)
//	err := errors.TypeConversion("float", value)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
