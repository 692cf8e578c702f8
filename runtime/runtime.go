package runtime

import (
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/wippyai/script-runtime/binding"
	"github.com/wippyai/script-runtime/engine"
	rterrors "github.com/wippyai/script-runtime/errors"
	"github.com/wippyai/script-runtime/reload"
	"github.com/wippyai/script-runtime/watcher"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the structured logger shared by all components. Defaults
// to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runtime) { r.logger = logger }
}

// WithClock sets the clock driving the file watcher. Tests substitute a fake
// clock; production uses the real one.
func WithClock(clock clockwork.Clock) Option {
	return func(r *Runtime) { r.clock = clock }
}

// WithPollInterval sets how often watched files are polled for changes.
func WithPollInterval(d time.Duration) Option {
	return func(r *Runtime) { r.pollInterval = d }
}

// Runtime is the host's entry point to embedded scripting. It owns the
// engine and registry for its whole lifetime; the watcher, reloader, and
// coordinator exist only while hot reload is enabled.
//
// All methods except the watcher's internal polling must be called from the
// goroutine that owns the Runtime.
type Runtime struct {
	logger       *zap.Logger
	clock        clockwork.Clock
	pollInterval time.Duration

	engine   *engine.Engine
	registry *binding.Registry

	watcher     *watcher.FileWatcher
	reloader    *reload.Reloader
	coordinator *reload.Coordinator
	reloadRoot  string
	onReload    reload.CompleteCallback
}

func New(opts ...Option) *Runtime {
	r := &Runtime{
		logger:       zap.NewNop(),
		clock:        clockwork.NewRealClock(),
		pollInterval: watcher.DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.engine = engine.New(engine.WithLogger(r.logger))
	r.registry = binding.NewRegistry()
	return r
}

// RegisterBinder makes a host object callable from scripts under its
// binder name. Registration is rejected after the first duplicate name.
func (r *Runtime) RegisterBinder(b binding.Binder) error {
	if err := r.registry.Register(b); err != nil {
		return err
	}
	if err := r.engine.Bind(b); err != nil {
		return err
	}
	r.logger.Info("binder registered",
		zap.String("object", b.Name()),
		zap.Int("methods", len(b.Methods())))
	return nil
}

// Registry exposes the binding registry, mainly for catalog introspection.
func (r *Runtime) Registry() *binding.Registry { return r.registry }

// Engine exposes the underlying script engine.
func (r *Runtime) Engine() *engine.Engine { return r.engine }

// ExecuteString compiles and runs a source chunk.
func (r *Runtime) ExecuteString(src string) error {
	return r.engine.ExecuteString(src)
}

// ExecuteFile compiles and runs a script file.
func (r *Runtime) ExecuteFile(path string) error {
	return r.engine.ExecuteFile(path)
}

// CallFunction invokes a global script function with the given arguments.
func (r *Runtime) CallFunction(name string, args ...any) (any, error) {
	return r.engine.CallFunction(name, args...)
}

// HasFunction reports whether a global script function is defined.
func (r *Runtime) HasFunction(name string) bool {
	return r.engine.HasFunction(name)
}

// SetReloadCompleteCallback registers the callback invoked after every
// reload attempt. It applies to the current and any future hot reload
// session.
func (r *Runtime) SetReloadCompleteCallback(fn reload.CompleteCallback) {
	r.onReload = fn
	if r.reloader != nil {
		r.reloader.SetReloadCompleteCallback(fn)
	}
}

// EnableHotReload starts watching files under root and reloading them as
// they change. files are paths relative to root. Enabling twice is a no-op
// for the watcher but still adds any new files to the watch list.
//
// On failure the runtime stays fully usable; only hot reload is unavailable.
func (r *Runtime) EnableHotReload(root string, files ...string) error {
	if r.coordinator != nil && r.coordinator.Enabled() {
		if root != r.reloadRoot {
			return rterrors.InvalidInput(rterrors.PhaseWatch,
				"hot reload already enabled with a different root")
		}
		for _, f := range files {
			r.watcher.AddWatchedFile(f)
		}
		return nil
	}

	w := watcher.New(
		watcher.WithClock(r.clock),
		watcher.WithPollInterval(r.pollInterval),
		watcher.WithLogger(r.logger),
	)
	if err := w.Initialize(root); err != nil {
		return err
	}
	for _, f := range files {
		w.AddWatchedFile(f)
	}

	// The reloader survives disable/re-enable cycles so script versions
	// keep counting up instead of restarting.
	rl := r.reloader
	if rl == nil {
		rl = reload.NewReloader(reload.WithReloaderLogger(r.logger))
		if err := rl.Initialize(r.engine); err != nil {
			return err
		}
	}
	if r.onReload != nil {
		rl.SetReloadCompleteCallback(r.onReload)
	}

	c := reload.NewCoordinator(reload.WithCoordinatorLogger(r.logger))
	if err := c.Initialize(w, rl, root); err != nil {
		return err
	}

	r.watcher = w
	r.reloader = rl
	r.coordinator = c
	r.reloadRoot = root
	return nil
}

// DisableHotReload stops watching and discards pending events. Safe to call
// when hot reload was never enabled.
func (r *Runtime) DisableHotReload() {
	if r.coordinator != nil {
		r.coordinator.Shutdown()
	}
}

// HotReloadEnabled reports whether changes are currently being watched.
func (r *Runtime) HotReloadEnabled() bool {
	return r.coordinator != nil && r.coordinator.Enabled()
}

// AddWatchedFile adds a root-relative file to the watch list. No-op when
// hot reload is disabled.
func (r *Runtime) AddWatchedFile(rel string) {
	if r.watcher != nil {
		r.watcher.AddWatchedFile(rel)
	}
}

// RemoveWatchedFile removes a root-relative file from the watch list.
func (r *Runtime) RemoveWatchedFile(rel string) {
	if r.watcher != nil {
		r.watcher.RemoveWatchedFile(rel)
	}
}

// WatchedFiles returns the watch list in insertion order.
func (r *Runtime) WatchedFiles() []string {
	if r.watcher == nil {
		return nil
	}
	return r.watcher.WatchedFiles()
}

// FileTimestamp returns the modification time of a watched root-relative
// file.
func (r *Runtime) FileTimestamp(rel string) (time.Time, error) {
	if r.watcher == nil {
		return time.Time{}, rterrors.NotInitialized("file watcher")
	}
	return r.watcher.Timestamp(rel)
}

// ReloadScript manually reloads a root-relative script, outside of any
// change detection. Hot reload must be enabled.
func (r *Runtime) ReloadScript(rel string) bool {
	if r.reloader == nil {
		return false
	}
	return r.reloader.ReloadScript(r.resolve(rel))
}

// ProcessPendingEvents drains queued file change events and reloads the
// affected scripts. Call once per frame. Returns the number of reloads
// attempted; zero when hot reload is disabled or nothing changed.
func (r *Runtime) ProcessPendingEvents() int {
	if r.coordinator == nil {
		return 0
	}
	return r.coordinator.ProcessPendingEvents()
}

// Close shuts down hot reload. The engine itself holds no external
// resources, so the runtime is safe to abandon afterwards.
func (r *Runtime) Close() {
	r.DisableHotReload()
}

func (r *Runtime) resolve(rel string) string {
	return filepath.Join(r.reloadRoot, rel)
}
