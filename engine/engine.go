package engine

import (
	lua "github.com/Shopify/go-lua"
	"go.uber.org/zap"

	"github.com/wippyai/script-runtime/binding"
	"github.com/wippyai/script-runtime/errors"
)

// versionsGlobal is the Lua-side table mapping chunk names to reload
// versions. Scripts read it to detect that a module they depend on was
// reloaded and rebuild their references on next use.
const versionsGlobal = "SCRIPT_VERSIONS"

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// Engine owns one Lua state. See the package documentation for the
// single-goroutine affinity contract.
type Engine struct {
	state  *lua.State
	logger *zap.Logger
}

// New creates an engine with the Lua standard libraries opened.
func New(opts ...Option) *Engine {
	e := &Engine{
		state:  lua.NewState(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	lua.OpenLibraries(e.state)
	return e
}

// ExecuteString compiles and runs a chunk of Lua source.
func (e *Engine) ExecuteString(src string) error {
	top := e.state.Top()
	defer e.state.SetTop(top)

	if err := lua.LoadString(e.state, src); err != nil {
		return errors.ScriptError(errors.PhaseCompile, "<string>", err)
	}
	if err := e.state.ProtectedCall(0, 0, 0); err != nil {
		return errors.ScriptError(errors.PhaseExec, "<string>", err)
	}
	return nil
}

// ExecuteFile compiles and runs a Lua source file. Compile failures and
// execution failures carry distinct phases so a reloader can tell a syntax
// error (nothing ran) from a runtime error.
func (e *Engine) ExecuteFile(path string) error {
	top := e.state.Top()
	defer e.state.SetTop(top)

	if err := lua.LoadFile(e.state, path, ""); err != nil {
		return errors.ScriptError(errors.PhaseCompile, path, err)
	}
	if err := e.state.ProtectedCall(0, 0, 0); err != nil {
		return errors.ScriptError(errors.PhaseExec, path, err)
	}
	return nil
}

// CallFunction invokes a global Lua function with the given arguments and
// returns its first result converted to the dynamic value set.
func (e *Engine) CallFunction(name string, args ...any) (any, error) {
	top := e.state.Top()
	defer e.state.SetTop(top)

	e.state.Global(name)
	if e.state.TypeOf(-1) != lua.TypeFunction {
		return nil, errors.InvalidInput(errors.PhaseExec, "no Lua function named "+name)
	}
	for _, a := range args {
		pushValue(e.state, a)
	}
	if err := e.state.ProtectedCall(len(args), 1, 0); err != nil {
		return nil, errors.ScriptError(errors.PhaseExec, name, err)
	}
	return toValue(e.state, -1), nil
}

// HasFunction reports whether a global Lua function with the name exists.
func (e *Engine) HasFunction(name string) bool {
	top := e.state.Top()
	defer e.state.SetTop(top)
	e.state.Global(name)
	return e.state.TypeOf(-1) == lua.TypeFunction
}

// Bind exposes a host object to scripts as a global table named by the
// binder. Catalog methods become dispatch closures; readable properties
// surface through the table's __index metamethod, writable ones through
// __newindex. Writing an unknown or read-only property raises a Lua error
// in the writing script, never a Go panic.
func (e *Engine) Bind(b binding.Binder) error {
	name := b.Name()
	if name == "" {
		return errors.InvalidInput(errors.PhaseInit, "binder name cannot be empty")
	}
	l := e.state
	top := l.Top()
	defer l.SetTop(top)

	l.NewTable()
	for _, m := range b.Methods() {
		method := m.Name
		l.PushGoFunction(func(l *lua.State) int {
			n := l.Top()
			args := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				args = append(args, toValue(l, i))
			}
			res := dispatch(b, method, args)
			if !res.OK {
				e.logger.Debug("script call failed",
					zap.String("object", name),
					zap.String("method", method),
					zap.String("error", res.Error))
				l.PushNil()
				l.PushString(res.Error)
				return 2
			}
			pushValue(l, res.Value)
			l.PushNil()
			return 2
		})
		l.SetField(-2, method)
	}

	l.NewTable()
	l.PushGoFunction(func(l *lua.State) int {
		key := lua.CheckString(l, 2)
		v, ok := readProperty(b, key)
		if !ok {
			l.PushNil()
			return 1
		}
		pushValue(l, v)
		return 1
	})
	l.SetField(-2, "__index")
	l.PushGoFunction(func(l *lua.State) int {
		key := lua.CheckString(l, 2)
		value := toValue(l, 3)
		if !writeProperty(b, key, value) {
			lua.Errorf(l, "property %s is read-only or unknown", key)
		}
		return 0
	})
	l.SetField(-2, "__newindex")
	l.SetMetaTable(-2)

	l.SetGlobal(name)
	e.logger.Info("bound host object",
		zap.String("object", name),
		zap.Int("methods", len(b.Methods())))
	return nil
}

// dispatch invokes a binder method with panic containment, so a misbehaving
// host method surfaces to the script as an error value instead of unwinding
// through the Lua state as a Go panic.
func dispatch(b binding.Binder, method string, args []any) (result binding.CallResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = binding.Failuref("method %s panicked: %v", method, rec)
		}
	}()
	return b.Call(method, args)
}

// readProperty guards property getters the same way dispatch guards method
// calls; a panicking getter reads as an absent property.
func readProperty(b binding.Binder, key string) (v any, ok bool) {
	defer func() {
		if recover() != nil {
			v, ok = nil, false
		}
	}()
	return b.Property(key)
}

// writeProperty guards property setters; a panicking setter reports the
// write as refused.
func writeProperty(b binding.Binder, key string, value any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return b.SetProperty(key, value)
}

// SetScriptVersion publishes a reload version for a chunk name into the
// SCRIPT_VERSIONS global table.
func (e *Engine) SetScriptVersion(chunk string, version int) {
	l := e.state
	top := l.Top()
	defer l.SetTop(top)

	l.Global(versionsGlobal)
	if l.TypeOf(-1) != lua.TypeTable {
		l.Pop(1)
		l.NewTable()
		l.PushValue(-1)
		l.SetGlobal(versionsGlobal)
	}
	l.PushInteger(version)
	l.SetField(-2, chunk)
}

// ScriptVersion reads a chunk's published reload version, or 0 if the chunk
// was never reloaded.
func (e *Engine) ScriptVersion(chunk string) int {
	l := e.state
	top := l.Top()
	defer l.SetTop(top)

	l.Global(versionsGlobal)
	if l.TypeOf(-1) != lua.TypeTable {
		return 0
	}
	l.Field(-1, chunk)
	v, ok := l.ToInteger(-1)
	if !ok {
		return 0
	}
	return v
}
