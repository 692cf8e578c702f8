// Package binding defines the contract between host objects and scripts:
// the introspectable method catalog, the property set, and the CallResult
// shape every boundary-crossing call must honor.
package binding

import (
	"fmt"

	"github.com/wippyai/script-runtime/marshal"
)

// MethodDescriptor declares one host-exposed method. Immutable once
// published; the full set for a binder forms its method catalog.
type MethodDescriptor struct {
	Name        string
	Description string
	Params      []marshal.TypeTag
	Returns     marshal.TypeTag
}

// CallResult is the single outcome of a boundary-crossing call. It is a
// value, never an exception: host failures, conversion failures and
// argument mismatches all surface as a populated Error field.
type CallResult struct {
	Value any
	Error string
	OK    bool
}

// Success wraps a return value. Pass nil for void methods.
func Success(value any) CallResult {
	return CallResult{OK: true, Value: value}
}

// Failure wraps an error message.
func Failure(msg string) CallResult {
	return CallResult{Error: msg}
}

// Failuref wraps a formatted error message.
func Failuref(format string, args ...any) CallResult {
	return CallResult{Error: fmt.Sprintf(format, args...)}
}

// FailureErr wraps a Go error into a result.
func FailureErr(err error) CallResult {
	return CallResult{Error: err.Error()}
}

// Binder fronts one host object exposed to scripts. Implementations hold a
// non-owning reference to the host collaborator; the collaborator's lifetime
// is managed externally and must outlive the binder.
//
// Call, Property and SetProperty execute on the engine goroutine only.
type Binder interface {
	// Name returns the script-visible object name (e.g. "game").
	Name() string

	// Methods returns the method catalog in declaration order. The catalog
	// is pure introspection: enumerating it must not invoke any method.
	Methods() []MethodDescriptor

	// Properties returns the readable property names.
	Properties() []string

	// Call dispatches a method by name. Unknown names and host-side
	// failures are reported through the CallResult, never as a panic.
	Call(method string, args []any) CallResult

	// Property returns a property value, or false if the name is unknown.
	Property(name string) (any, bool)

	// SetProperty writes a property. It returns false if the property is
	// unknown or read-only.
	SetProperty(name string, value any) bool
}
