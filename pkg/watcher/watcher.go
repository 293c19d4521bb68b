// Package watcher triggers workspace reloads when files under the watched
// directories change, and optionally on a fixed interval.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jingkaihe/skillmgr/pkg/logger"
	"github.com/pkg/errors"
)

// ReloadFunc reloads the workspace
type ReloadFunc func(ctx context.Context) error

// Event is a debounced file change
type Event struct {
	Path string
	Op   fsnotify.Op
	Time time.Time
}

// Watcher reloads on file changes
type Watcher struct {
	paths    []string
	debounce time.Duration
	interval time.Duration
	reload   ReloadFunc
	onReload func(Event, error)
}

// Option configures a Watcher
type Option func(*Watcher)

// WithPaths sets the directories to watch. Each directory and its direct
// subdirectories are watched; missing directories are picked up once they
// are created inside another watched directory.
func WithPaths(paths ...string) Option {
	return func(w *Watcher) {
		w.paths = append(w.paths, paths...)
	}
}

// WithDebounce sets how long to wait for changes to settle before reloading
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithInterval additionally reloads every d. Zero disables periodic reloads.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.interval = d
	}
}

// WithReloadHook is called after every reload attempt
func WithReloadHook(fn func(Event, error)) Option {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// New creates a watcher calling reload
func New(reload ReloadFunc, opts ...Option) *Watcher {
	w := &Watcher{
		debounce: 500 * time.Millisecond,
		reload:   reload,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer fsw.Close()

	for _, path := range w.paths {
		w.addDir(ctx, fsw, path, 1)
	}

	events := make(chan Event)
	debounced := make(chan Event, 1)
	go debounce(ctx, events, debounced, w.debounce)

	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	log := logger.G(ctx)
	log.WithField("paths", len(w.paths)).Info("file watcher initialized")

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.addDir(ctx, fsw, event.Name, 1)
			}
			select {
			case events <- Event{Path: event.Name, Op: event.Op, Time: time.Now()}:
			case <-ctx.Done():
				return nil
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Error("error watching files")
		case event := <-debounced:
			log.WithField("file", event.Path).WithField("operation", event.Op.String()).Debug("file change detected")
			w.doReload(ctx, event)
		case now := <-tick:
			w.doReload(ctx, Event{Time: now})
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Watcher) doReload(ctx context.Context, event Event) {
	err := w.reload(ctx)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("reload failed")
	}
	if w.onReload != nil {
		w.onReload(event, err)
	}
}

// addDir watches path and its subdirectories down to depth levels
func (w *Watcher) addDir(ctx context.Context, fsw *fsnotify.Watcher, path string, depth int) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := fsw.Add(path); err != nil {
		logger.G(ctx).WithError(err).WithField("directory", path).Debug("failed to watch directory")
		return
	}
	if depth == 0 {
		return
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			w.addDir(ctx, fsw, filepath.Join(path, entry.Name()), depth-1)
		}
	}
}

// debounce coalesces bursts of events into the last event of the burst,
// emitted once no event arrived for delay. Emission never blocks: when output
// is full a reload is already queued and the event is dropped.
func debounce(ctx context.Context, input <-chan Event, output chan<- Event, delay time.Duration) {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending Event
		have    bool
	)
	stop := func() {
		if timer != nil {
			timer.Stop()
		}
	}

	for {
		select {
		case event, ok := <-input:
			if !ok {
				stop()
				return
			}
			pending, have = event, true
			stop()
			timer = time.NewTimer(delay)
			fire = timer.C
		case <-fire:
			fire = nil
			if !have {
				continue
			}
			have = false
			select {
			case output <- pending:
			default:
			}
		case <-ctx.Done():
			stop()
			return
		}
	}
}
