package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseMarshal  Phase = "marshal"  // dynamic value conversion
	PhaseDispatch Phase = "dispatch" // method/property resolution
	PhaseCompile  Phase = "compile"  // script chunk compilation
	PhaseExec     Phase = "exec"     // script execution
	PhaseWatch    Phase = "watch"    // file watching
	PhaseReload   Phase = "reload"   // script reloading
	PhaseInit     Phase = "init"     // component initialization
)

// Kind categorizes the error
type Kind string

const (
	KindArgCount        Kind = "arg_count"
	KindTypeConversion  Kind = "type_conversion"
	KindUnknownMethod   Kind = "unknown_method"
	KindUnknownProperty Kind = "unknown_property"
	KindFileSystem      Kind = "file_system"
	KindReloadFailed    Kind = "reload_failed"
	KindScriptError     Kind = "script_error"
	KindNotInitialized  Kind = "not_initialized"
	KindInvalidInput    Kind = "invalid_input"
	KindRegistration    Kind = "registration"
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Method   string
	Script   string
	Expected string
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Method != "" {
		b.WriteString(" in ")
		b.WriteString(e.Method)
	}
	if e.Script != "" {
		b.WriteString(" (")
		b.WriteString(e.Script)
		b.WriteByte(')')
	}
	if e.Expected != "" {
		b.WriteString(": expected ")
		b.WriteString(e.Expected)
	}

	if e.Detail != "" {
		if e.Expected != "" {
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

// Method sets the method name the error occurred in
func (b *Builder) Method(name string) *Builder {
	b.err.Method = name
	return b
}

// Script sets the script path the error relates to
func (b *Builder) Script(path string) *Builder {
	b.err.Script = path
	return b
}

// Expected sets the expected type or shape
func (b *Builder) Expected(what string) *Builder {
	b.err.Expected = what
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

// ArgCount creates an argument count mismatch error
func ArgCount(method string, want, got int) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindArgCount,
		Method: method,
		Detail: fmt.Sprintf("%s needs %d arguments, but received %d", method, want, got),
		Value:  got,
	}
}

// ArgCountRange creates an argument count mismatch error for a min/max range
func ArgCountRange(method string, min, max, got int) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindArgCount,
		Method: method,
		Detail: fmt.Sprintf("%s needs %d-%d arguments, but received %d", method, min, max, got),
		Value:  got,
	}
}

// TypeConversion creates an error for a value that exhausted the probing order
func TypeConversion(expected string, value any) *Error {
	return &Error{
		Phase:    PhaseMarshal,
		Kind:     KindTypeConversion,
		Expected: expected,
		Detail:   fmt.Sprintf("cannot convert %T value %v", value, value),
		Value:    value,
	}
}

// VecArity creates an error for too few values to assemble a vector
func VecArity(available int) *Error {
	return &Error{
		Phase:    PhaseMarshal,
		Kind:     KindTypeConversion,
		Expected: "Vec3",
		Detail:   fmt.Sprintf("Vec3 requires 3 values (x, y, z), %d available", available),
		Value:    available,
	}
}

// UnknownMethod creates an error for a name not in the catalog
func UnknownMethod(name string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindUnknownMethod,
		Method: name,
		Detail: fmt.Sprintf("unknown method: %s", name),
	}
}

// UnknownProperty creates an error for a property not in the catalog
func UnknownProperty(name string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindUnknownProperty,
		Detail: fmt.Sprintf("unknown property: %s", name),
	}
}

// FileSystem creates an error for an unreadable or missing watched path
func FileSystem(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseWatch,
		Kind:   KindFileSystem,
		Script: path,
		Detail: "stat watched file",
		Cause:  cause,
	}
}

// ReloadFailed creates an error for a failed script re-execution
func ReloadFailed(script string, cause error) *Error {
	return &Error{
		Phase:  PhaseReload,
		Kind:   KindReloadFailed,
		Script: script,
		Detail: "previous version remains active",
		Cause:  cause,
	}
}

// ScriptError wraps a compile or execution failure from the Lua state
func ScriptError(phase Phase, script string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindScriptError,
		Script: script,
		Cause:  cause,
	}
}

// NotInitialized creates a not-initialized error for a missing collaborator
func NotInitialized(component string) *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
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

// Registration creates a binder registration error
func Registration(object string, cause error) *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register binder %q", object),
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
