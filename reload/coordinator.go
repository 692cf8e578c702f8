package reload

import (
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	rterrors "github.com/wippyai/script-runtime/errors"
)

// FileWatcher is the slice of the watcher the coordinator drives.
type FileWatcher interface {
	SetChangeCallback(fn func(relPath string))
	StartWatching()
	StopWatching()
}

// ScriptReloader is the slice of the reloader the coordinator drains into.
type ScriptReloader interface {
	ReloadScript(absPath string) bool
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithCoordinatorLogger sets the structured logger. Defaults to a no-op
// logger.
func WithCoordinatorLogger(logger *zap.Logger) CoordinatorOption {
	return func(c *Coordinator) { c.logger = logger }
}

// Coordinator connects the watcher's background change notifications to the
// engine-affine reloader. Change events land in a pending queue from the
// watcher goroutine; the host calls ProcessPendingEvents once per frame on
// the engine goroutine, which drains the queue in arrival order and runs the
// reloads there. No reload ever executes on the watcher goroutine.
type Coordinator struct {
	watcher  FileWatcher
	reloader ScriptReloader
	logger   *zap.Logger
	root     string

	mu      sync.Mutex
	pending []string
	enabled bool
}

func NewCoordinator(opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize wires the watcher's change callback to the pending queue and
// starts background watching. root is the directory watched relative paths
// resolve against.
func (c *Coordinator) Initialize(watcher FileWatcher, reloader ScriptReloader, root string) error {
	if watcher == nil {
		return rterrors.NotInitialized("file watcher")
	}
	if reloader == nil {
		return rterrors.NotInitialized("script reloader")
	}

	c.watcher = watcher
	c.reloader = reloader
	c.root = root

	c.watcher.SetChangeCallback(c.onFileChanged)
	c.watcher.StartWatching()

	c.mu.Lock()
	c.enabled = true
	c.mu.Unlock()

	c.logger.Info("hot reload enabled", zap.String("root", root))
	return nil
}

// Shutdown stops watching and discards any queued events. Safe to call more
// than once and before Initialize.
func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	wasEnabled := c.enabled
	c.enabled = false
	c.pending = nil
	c.mu.Unlock()

	if wasEnabled && c.watcher != nil {
		c.watcher.StopWatching()
		c.logger.Info("hot reload disabled")
	}
}

// Enabled reports whether the coordinator is initialized and watching.
func (c *Coordinator) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// ProcessPendingEvents drains all queued change events and reloads each
// script in arrival order. Call once per frame from the goroutine that owns
// the script engine. Returns the number of reloads attempted.
//
// The queue is swapped out under the lock and processed after release, so
// the watcher goroutine never blocks on a reload and events arriving during
// processing land in the next drain.
func (c *Coordinator) ProcessPendingEvents() int {
	c.mu.Lock()
	if !c.enabled || len(c.pending) == 0 {
		c.mu.Unlock()
		return 0
	}
	batch := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, rel := range batch {
		c.reloader.ReloadScript(filepath.Join(c.root, rel))
	}
	return len(batch)
}

// onFileChanged runs on the watcher goroutine. It only appends to the queue.
func (c *Coordinator) onFileChanged(relPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	c.pending = append(c.pending, relPath)
	c.logger.Debug("change queued", zap.String("file", relPath))
}
