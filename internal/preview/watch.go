package preview

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// DefaultDebounce is the quiet window between the last change and a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc regenerates the site.
type BuildFunc func(ctx context.Context) error

// Debouncer coalesces bursts of triggers into one request on C.
type Debouncer struct {
	window time.Duration
	out    chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer returns a debouncer that fires window after the last Trigger.
func NewDebouncer(window time.Duration, out chan struct{}) *Debouncer {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &Debouncer{window: window, out: out}
}

// Trigger restarts the quiet window.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() { request(d.out) })
}

// Stop cancels a pending fire.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// request queues a rebuild unless one is already queued.
func request(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// runRebuilds serves rebuild requests one at a time until ctx ends. Requests
// arriving during a build collapse into a single follow-up build.
func runRebuilds(ctx context.Context, reqs <-chan struct{}, build BuildFunc, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-reqs:
			slog.Info("Change detected; regenerating site")
			if err := build(ctx); err != nil {
				slog.Warn("Regeneration failed", logfields.Error(err))
				continue
			}
			slog.Info("Site regenerated")
		}
	}
}

// newWatcher watches dir and every directory below it.
func newWatcher(dir string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := addDirsRecursive(w, dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

// handleEvent starts watching new directories and triggers a rebuild for
// relevant changes.
func handleEvent(w *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(w, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), logfields.Op(ev.Op.String()))
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent reports hidden, editor swap and OS metadata files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
