package binding

import (
	"fmt"

	"github.com/wippyai/script-runtime/errors"
)

// Registry holds the binders exposed to the script side, keyed by object
// name, enumerated in registration order. The registry itself is stateless
// beyond the binder references it fronts.
//
// Register may be called during setup from the owning goroutine; dispatch
// happens on the engine goroutine.
type Registry struct {
	binders map[string]Binder
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{
		binders: make(map[string]Binder),
	}
}

// Register adds a binder. Duplicate object names are an error.
func (r *Registry) Register(b Binder) error {
	name := b.Name()
	if name == "" {
		return errors.InvalidInput(errors.PhaseInit, "binder name cannot be empty")
	}
	if _, exists := r.binders[name]; exists {
		return errors.Registration(name, fmt.Errorf("object %q already registered", name))
	}
	r.binders[name] = b
	r.order = append(r.order, name)
	return nil
}

// Lookup returns the binder for an object name.
func (r *Registry) Lookup(object string) (Binder, bool) {
	b, ok := r.binders[object]
	return b, ok
}

// Binders returns all registered binders in registration order.
func (r *Registry) Binders() []Binder {
	out := make([]Binder, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.binders[name])
	}
	return out
}

// Methods returns the method catalog for an object, or nil if unknown.
// Enumeration order is the binder's declaration order and is stable across
// reloads.
func (r *Registry) Methods(object string) []MethodDescriptor {
	b, ok := r.binders[object]
	if !ok {
		return nil
	}
	return b.Methods()
}

// Properties returns the readable property names for an object.
func (r *Registry) Properties(object string) []string {
	b, ok := r.binders[object]
	if !ok {
		return nil
	}
	return b.Properties()
}

// Call dispatches object.method(args). Unknown objects and methods produce
// a Failure result; a panicking binder is recovered into a Failure so that
// nothing from the host side crosses the boundary as a panic.
func (r *Registry) Call(object, method string, args []any) (result CallResult) {
	b, ok := r.binders[object]
	if !ok {
		return FailureErr(errors.UnknownMethod(object + "." + method))
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = Failuref("method %s panicked: %v", method, rec)
		}
	}()

	return b.Call(method, args)
}

// Property reads object.name through the registry.
func (r *Registry) Property(object, name string) (any, bool) {
	b, ok := r.binders[object]
	if !ok {
		return nil, false
	}
	return b.Property(name)
}

// SetProperty writes object.name through the registry.
func (r *Registry) SetProperty(object, name string, value any) bool {
	b, ok := r.binders[object]
	if !ok {
		return false
	}
	return b.SetProperty(name, value)
}

// ValidateArgCount checks for an exact argument count before any
// marshalling happens. It returns nil when the count matches.
func ValidateArgCount(args []any, want int, method string) *errors.Error {
	if len(args) != want {
		return errors.ArgCount(method, want, len(args))
	}
	return nil
}

// ValidateArgCountRange checks the argument count against a min/max range.
func ValidateArgCountRange(args []any, min, max int, method string) *errors.Error {
	if len(args) < min || len(args) > max {
		return errors.ArgCountRange(method, min, max, len(args))
	}
	return nil
}
