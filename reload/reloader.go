// Package reload rebuilds script execution state when watched source files
// change, and owns the thread-safe hand-off between the watcher goroutine
// and the engine goroutine.
//
// The Reloader re-executes changed files against the live engine; the
// Coordinator queues change notifications from the watcher goroutine and
// drains them once per host frame on the engine goroutine. That queue is the
// only path from background file detection into engine state.
package reload

import (
	"errors"
	"path/filepath"

	"go.uber.org/zap"

	rterrors "github.com/wippyai/script-runtime/errors"
)

// ScriptEngine is the slice of the engine the reloader needs: compile and
// re-execute a file, and publish reload versions to the script side.
type ScriptEngine interface {
	ExecuteFile(path string) error
	SetScriptVersion(chunk string, version int)
}

// CompleteCallback receives the outcome of every reload attempt. It is
// invoked synchronously on the engine goroutine.
type CompleteCallback func(success bool, errMsg string)

// ReloaderOption configures a Reloader.
type ReloaderOption func(*Reloader)

// WithReloaderLogger sets the structured logger. Defaults to a no-op logger.
func WithReloaderLogger(logger *zap.Logger) ReloaderOption {
	return func(r *Reloader) { r.logger = logger }
}

// Reloader replaces the code backing a script file while the process keeps
// running. It owns no state beyond a per-script version counter.
//
// ReloadScript must execute on the goroutine that owns the script engine;
// calling it from any other goroutine is unsafe. The Coordinator exists to
// uphold that invariant.
type Reloader struct {
	engine     ScriptEngine
	logger     *zap.Logger
	versions   map[string]int
	onComplete CompleteCallback
}

func NewReloader(opts ...ReloaderOption) *Reloader {
	r := &Reloader{
		logger:   zap.NewNop(),
		versions: make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Initialize attaches the reloader to the engine it will reload against.
func (r *Reloader) Initialize(engine ScriptEngine) error {
	if engine == nil {
		return rterrors.NotInitialized("script engine")
	}
	r.engine = engine
	return nil
}

// SetReloadCompleteCallback registers the completion callback used for
// logging and telemetry. Reload failures surface here, never as a panic.
func (r *Reloader) SetReloadCompleteCallback(fn CompleteCallback) {
	r.onComplete = fn
}

// Version returns the current reload version of a script by absolute path.
// A never-reloaded script has version 0.
func (r *Reloader) Version(absPath string) int {
	return r.versions[chunkName(absPath)]
}

// ReloadScript recompiles and re-executes the script file at absPath. On
// compile failure nothing runs and the previous version stays fully active;
// on execution failure the previously defined functions likewise remain
// callable. Either way the outcome goes to the completion callback and the
// returned bool; no error escapes as a panic.
//
// Reloads are transactional at the compile/execute step and idempotent:
// re-running unchanged content is observably equal to running it once.
func (r *Reloader) ReloadScript(absPath string) bool {
	if r.engine == nil {
		r.report(false, rterrors.NotInitialized("script reloader").Error())
		return false
	}

	chunk := chunkName(absPath)
	if err := r.engine.ExecuteFile(absPath); err != nil {
		failure := rterrors.ReloadFailed(absPath, err)
		r.logger.Error("script reload failed",
			zap.String("script", absPath),
			zap.Error(err))
		r.report(false, failure.Error())
		return false
	}

	r.versions[chunk]++
	r.engine.SetScriptVersion(chunk, r.versions[chunk])
	r.logger.Info("script reloaded",
		zap.String("script", absPath),
		zap.Int("version", r.versions[chunk]))
	r.report(true, "")
	return true
}

func (r *Reloader) report(success bool, errMsg string) {
	if r.onComplete != nil {
		r.onComplete(success, errMsg)
	}
}

// chunkName is the stable per-script key: the file's base name, so the
// same script keyed from relative and absolute paths shares one version
// counter.
func chunkName(path string) string {
	return filepath.Base(path)
}

// IsCompileFailure reports whether a reload error came from compilation,
// meaning nothing from the new file executed.
func IsCompileFailure(err error) bool {
	var structured *rterrors.Error
	if errors.As(err, &structured) {
		return structured.Phase == rterrors.PhaseCompile
	}
	return false
}
