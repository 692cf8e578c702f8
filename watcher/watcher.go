// Package watcher polls a set of watched script files for modification-time
// changes on a dedicated background goroutine.
//
// Paths are project-relative (e.g. "Data/Scripts/Game.lua") and resolved
// against the configured project root; the reload side resolves against the
// same root so both sides target the same file. A strictly newer mtime fires
// the change callback with the relative path. A deleted file is not a change
// event; if it reappears with a newer mtime, the change fires then.
package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/wippyai/script-runtime/errors"
)

// DefaultPollInterval is the fixed cadence of the background poll loop.
const DefaultPollInterval = 500 * time.Millisecond

// Option configures a FileWatcher.
type Option func(*FileWatcher)

// WithClock replaces the wall clock, letting tests drive the poll loop with
// a fake clock.
func WithClock(clock clockwork.Clock) Option {
	return func(w *FileWatcher) { w.clock = clock }
}

// WithPollInterval overrides the poll cadence.
func WithPollInterval(d time.Duration) Option {
	return func(w *FileWatcher) { w.interval = d }
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *FileWatcher) { w.logger = logger }
}

// FileWatcher owns the watched-file set and the background poll goroutine.
// AddWatchedFile/RemoveWatchedFile are safe to call concurrently with the
// poll loop; everything else belongs to the owning goroutine.
type FileWatcher struct {
	clock    clockwork.Clock
	interval time.Duration
	logger   *zap.Logger

	root     string
	onChange func(rel string)

	mu     sync.Mutex
	stamps map[string]time.Time
	order  []string

	watching bool
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(opts ...Option) *FileWatcher {
	w := &FileWatcher{
		clock:    clockwork.NewRealClock(),
		interval: DefaultPollInterval,
		logger:   zap.NewNop(),
		stamps:   make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Initialize validates and records the project root all watched paths
// resolve against.
func (w *FileWatcher) Initialize(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return errors.FileSystem(root, err)
	}
	if !info.IsDir() {
		return errors.InvalidInput(errors.PhaseInit, "watch root is not a directory: "+root)
	}
	w.root = root
	return nil
}

// SetChangeCallback registers the function invoked with the relative path of
// every changed file. The callback runs on the watcher goroutine and must
// not call into the script engine; hand the path off to the engine goroutine
// instead.
func (w *FileWatcher) SetChangeCallback(fn func(rel string)) {
	w.onChange = fn
}

// AddWatchedFile starts tracking a project-relative path. The current mtime
// becomes the baseline, so adding a file does not fire a change. A missing
// file gets a zero baseline and fires once it appears; the same applies to
// files added before Initialize.
func (w *FileWatcher) AddWatchedFile(rel string) {
	var stamp time.Time
	if info, err := os.Stat(w.fullPath(rel)); err == nil {
		stamp = info.ModTime()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.stamps[rel]; exists {
		return
	}
	w.stamps[rel] = stamp
	w.order = append(w.order, rel)
	w.logger.Debug("watching file", zap.String("path", rel))
}

// RemoveWatchedFile stops tracking a path.
func (w *FileWatcher) RemoveWatchedFile(rel string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.stamps[rel]; !exists {
		return
	}
	delete(w.stamps, rel)
	for i, p := range w.order {
		if p == rel {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// WatchedFiles returns the watched paths in the order they were added.
func (w *FileWatcher) WatchedFiles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}

// StartWatching launches the background poll goroutine. Idempotent.
func (w *FileWatcher) StartWatching() {
	if w.watching {
		return
	}
	w.watching = true
	w.done = make(chan struct{})
	w.wg.Add(1)
	go w.loop()
	w.logger.Info("file watcher started", zap.Duration("interval", w.interval))
}

// StopWatching stops the poll loop and does not return until the background
// goroutine has exited, so no callback fires after shutdown. Idempotent.
func (w *FileWatcher) StopWatching() {
	if !w.watching {
		return
	}
	close(w.done)
	w.wg.Wait()
	w.watching = false
	w.logger.Info("file watcher stopped")
}

// Watching reports whether the poll loop is running.
func (w *FileWatcher) Watching() bool {
	return w.watching
}

func (w *FileWatcher) loop() {
	defer w.wg.Done()
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.Chan():
			w.poll()
		}
	}
}

// poll stats every watched file once. The lock covers only the set snapshot
// and the stamp update; stat and the change callback run outside it.
func (w *FileWatcher) poll() {
	w.mu.Lock()
	snapshot := make([]string, len(w.order))
	copy(snapshot, w.order)
	stamps := make(map[string]time.Time, len(snapshot))
	for _, rel := range snapshot {
		stamps[rel] = w.stamps[rel]
	}
	w.mu.Unlock()

	var changed []string
	for _, rel := range snapshot {
		info, err := os.Stat(w.fullPath(rel))
		if err != nil {
			// Deleted or unreadable: not a change event.
			continue
		}
		if info.ModTime().After(stamps[rel]) {
			w.mu.Lock()
			if _, still := w.stamps[rel]; still {
				w.stamps[rel] = info.ModTime()
				changed = append(changed, rel)
			}
			w.mu.Unlock()
		}
	}

	for _, rel := range changed {
		w.logger.Debug("file changed", zap.String("path", rel))
		if w.onChange != nil {
			w.onChange(rel)
		}
	}
}

// Timestamp returns the current modification time of a project-relative
// path, independent of whether it is watched.
func (w *FileWatcher) Timestamp(rel string) (time.Time, error) {
	info, err := os.Stat(w.fullPath(rel))
	if err != nil {
		return time.Time{}, errors.FileSystem(rel, err)
	}
	return info.ModTime(), nil
}

// fullPath resolves a project-relative path against the root. Before
// Initialize there is no root; returning an empty path keeps every stat from
// accidentally resolving against the process working directory.
func (w *FileWatcher) fullPath(rel string) string {
	if w.root == "" {
		return ""
	}
	return filepath.Join(w.root, rel)
}
