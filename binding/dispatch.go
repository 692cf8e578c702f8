package binding

import (
	"github.com/wippyai/script-runtime/errors"
)

// Handler implements one catalog method. Handlers validate argument count
// first, then convert arguments through the marshal package, then invoke the
// host collaborator, wrapping every failure into the returned CallResult.
type Handler func(args []any) CallResult

// Dispatcher resolves method names against a fixed handler table. There is
// no open-ended reflection: a name without a handler is an unknown method.
type Dispatcher struct {
	handlers map[string]Handler
}

func NewDispatcher(handlers map[string]Handler) *Dispatcher {
	return &Dispatcher{handlers: handlers}
}

// Dispatch resolves and invokes the handler for method. A panicking handler
// is recovered into a Failure result.
func (d *Dispatcher) Dispatch(method string, args []any) (result CallResult) {
	h, ok := d.handlers[method]
	if !ok {
		return FailureErr(errors.UnknownMethod(method))
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = Failuref("method %s panicked: %v", method, rec)
		}
	}()

	return h(args)
}
