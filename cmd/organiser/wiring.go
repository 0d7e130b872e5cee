package main

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/chat"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/config"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/logging"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/notify"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/tui"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/watch"
)

// app holds the collaborators built from the configuration. Every command
// opens one, uses it, and closes it.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *store.Store
	files    *store.FileBackend // nil unless the file backend is configured
	notifier *notify.Notifier
	warnings *tui.Warnings
	chat     *chat.Service
}

// openApp loads and validates the configuration, then builds the store and
// its consumers. quiet discards log output that would otherwise go to
// stderr, for when the terminal UI owns the screen.
func openApp(g globalFlags, quiet bool) (*app, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.ephemeral {
		cfg.Storage.Backend = config.BackendMemory
		cfg.Storage.Watch = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.LogPath(),
		Verbose: g.verbose,
		Quiet:   quiet,
	})
	if err != nil {
		return nil, err
	}

	backend, files, err := openBackend(cfg)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		files:    files,
		notifier: notify.New(cfg.Notifications.URL, "", cfg.Notifications.OnWriteError, cfg.Notifications.OnReminder, logger),
		warnings: tui.NewWarnings(8),
	}
	a.store = store.New(backend,
		store.WithLogger(logger),
		store.WithKey(cfg.Storage.Key),
		store.WithIDs(idGenerator(cfg.IDs.Scheme)),
		store.WithWarningHandler(a.warn),
	)
	a.store.Initialize()
	a.chat = chat.NewService(a.store,
		chat.WithDelay(cfg.ReplyDelay()),
		chat.WithLogger(logger),
	)
	logger.Debug("store opened",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("path", cfg.StoragePath()),
		zap.String("key", cfg.Storage.Key),
	)
	return a, nil
}

// openBackend builds the configured backend. files is set only for the file
// backend, which is the one a watcher can follow.
func openBackend(cfg *config.Config) (store.Backend, *store.FileBackend, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return store.NewMemoryBackend(), nil, nil
	case config.BackendSQLite:
		b, err := store.NewSQLiteBackend(cfg.StoragePath())
		if err != nil {
			return nil, nil, err
		}
		return b, nil, nil
	default:
		fb, err := store.NewFileBackend(cfg.StoragePath())
		if err != nil {
			return nil, nil, err
		}
		return fb, fb, nil
	}
}

func idGenerator(scheme string) store.IDGenerator {
	if scheme == config.IDsClock {
		return store.NewClockIDs(time.Now)
	}
	return store.UUIDs{}
}

// warn is the store's warning handler: it queues the error for the TUI
// footer and fires the write-error notification.
func (a *app) warn(err error) {
	a.warnings.Report(err)
	a.notifier.WriteError(err)
}

// watcher returns a watcher for the state file, or nil when watching is off
// or the backend is not file based.
func (a *app) watcher() *watch.Watcher {
	if !a.cfg.Storage.Watch || a.files == nil {
		return nil
	}
	return watch.New(a.files.Path(a.store.Key()), a.store,
		watch.WithLogger(a.logger),
		watch.OnReload(func(_ bool, err error) {
			if err != nil {
				a.warnings.Report(fmt.Errorf("reload: %w", err))
			}
		}),
	)
}

// location describes where state is kept, for the TUI header.
func (a *app) location() string {
	if a.cfg.Storage.Backend == config.BackendMemory {
		return "memory"
	}
	return a.cfg.StoragePath()
}

// Close cancels pending chat replies, flushes the store and waits for
// outstanding notifications.
func (a *app) Close() error {
	a.chat.Close()
	err := a.store.Close()
	a.notifier.Wait()
	_ = a.logger.Sync()
	return err
}

// withApp opens the app, runs fn and closes the app, joining both errors.
func withApp(g globalFlags, fn func(a *app) error) (err error) {
	a, err := openApp(g, false)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()
	return fn(a)
}
