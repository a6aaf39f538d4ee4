// Package watch reruns the plugin linker update whenever the plugins directory changes.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/zyanho/lunac/internal/logging"
)

// DefaultDebounce is how long the directory must stay quiet before an update
const DefaultDebounce = 300 * time.Millisecond

// UpdateFunc refreshes the plugin linker
type UpdateFunc func(ctx context.Context) error

// Watcher watches a directory tree and calls an UpdateFunc after changes settle
type Watcher struct {
	dir      string
	update   UpdateFunc
	debounce time.Duration
	logger   logging.Logger
	watcher  *fsnotify.Watcher
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce sets the quiet period before an update runs
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets an external logger implementation
func WithLogger(logger logging.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a watcher over dir and every directory below it
func New(dir string, update UpdateFunc, opts ...Option) (*Watcher, error) {
	if update == nil {
		return nil, fmt.Errorf("update func cannot be nil")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("plugins directory not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("plugins path is not a directory: %s", dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		dir:      dir,
		update:   update,
		debounce: DefaultDebounce,
		logger:   logging.Nop(),
		watcher:  fw,
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.addTree(dir); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Run performs an initial update and then one update per burst of changes
// until ctx is cancelled. Failed updates are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.runUpdate(ctx)
	w.logger.Info("Watching plugins", "dir", w.dir)

	trigger := make(chan struct{}, 1)
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return w.watchEvents(ctx, trigger)
	})
	eg.Go(func() error {
		return w.updateLoop(ctx, trigger)
	})

	return eg.Wait()
}

func (w *Watcher) watchEvents(ctx context.Context, trigger chan<- struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			w.logger.Debug("Plugins changed", "path", event.Name, "op", event.Op.String())

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn("Failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}

			select {
			case trigger <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)
		}
	}
}

func (w *Watcher) updateLoop(ctx context.Context, trigger <-chan struct{}) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-trigger:
			timer.Reset(w.debounce)
		case <-timer.C:
			w.runUpdate(ctx)
		}
	}
}

func (w *Watcher) runUpdate(ctx context.Context) {
	start := time.Now()
	if err := w.update(ctx); err != nil {
		w.logger.Error("Plugin linker update failed", "error", err)
		return
	}
	w.logger.Info("Plugin linker updated", "duration", time.Since(start))
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
		return nil
	})
}
