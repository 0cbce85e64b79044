package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 300 * time.Millisecond

// Watcher watches a directory for changes to a fixed set of filenames.
// Editors produce bursts of filesystem events per save; the callback runs
// debounced, once per burst.
type Watcher struct {
	fsw      *fsnotify.Watcher
	logger   *slog.Logger
	names    map[string]bool
	debounce *debouncer
	onChange func(name string)
}

// New creates a watcher for the named files inside dir. onChange receives
// the name of the file that changed last in a burst.
func New(dir string, names []string, logger *slog.Logger, onChange func(string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	watched := make(map[string]bool, len(names))
	for _, name := range names {
		watched[name] = true
	}

	return &Watcher{
		fsw:      fsw,
		logger:   logger,
		names:    watched,
		debounce: newDebouncer(debounceInterval),
		onChange: onChange,
	}, nil
}

// Start launches the event loop. It returns immediately; the loop stops
// when ctx is cancelled or the watcher is closed.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *Watcher) run(ctx context.Context) {
	w.logger.Info("Configuration watcher started")
	defer w.logger.Info("Configuration watcher stopped")

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			name := filepath.Base(event.Name)
			if event.Op&fsnotify.Chmod != 0 || !w.names[name] {
				continue
			}

			w.logger.Debug("Configuration file event",
				slog.String("file", name),
				slog.String("op", event.Op.String()))

			w.debounce.trigger(func() {
				w.onChange(name)
			})

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", slog.Any("err", err))
		}
	}
}

// Close stops the underlying filesystem watcher and cancels any pending
// callback.
func (w *Watcher) Close() error {
	w.debounce.stop()
	return w.fsw.Close()
}

type debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	stopped  bool
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval}
}

func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, fn)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
