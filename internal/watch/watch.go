// Package watch reloads the store when its state file changes on disk, e.g.
// when a CLI command runs while the terminal UI is open.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses bursts of events from one atomic write.
const DefaultDebounce = 150 * time.Millisecond

// Reloader re-reads persisted state. *store.Store implements it.
type Reloader interface {
	Reload() (bool, error)
}

// Watcher watches one file and calls Reload after it settles.
type Watcher struct {
	path     string
	target   Reloader
	debounce time.Duration
	logger   *zap.Logger
	onReload func(changed bool, err error)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before reloading.
func WithDebounce(d time.Duration) Option { return func(w *Watcher) { w.debounce = d } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// OnReload registers fn to run after every reload attempt.
func OnReload(fn func(changed bool, err error)) Option {
	return func(w *Watcher) { w.onReload = fn }
}

// New returns a Watcher for path.
func New(path string, target Reloader, opts ...Option) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		target:   target,
		debounce: DefaultDebounce,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is cancelled. The parent directory is watched
// rather than the file, since atomic writes replace the file's inode.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("watch: mkdir %s: %w", dir, err)
	}
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch: add %s: %w", dir, err)
	}
	w.logger.Debug("watching state file", zap.String("path", w.path))

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-fire:
			fire = nil
			changed, err := w.target.Reload()
			if err != nil {
				w.logger.Warn("reload state", zap.String("path", w.path), zap.Error(err))
			} else if changed {
				w.logger.Info("state reloaded after external change", zap.String("path", w.path))
			}
			if w.onReload != nil {
				w.onReload(changed, err)
			}
		}
	}
}
