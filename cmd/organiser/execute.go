package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/tui"
)

// executeTUI opens the store quietly and runs the terminal UI until the user
// quits or a signal arrives.
func executeTUI(parent context.Context, g globalFlags) (err error) {
	a, err := openApp(g, true)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()

	ctx, cancel := signalContext(parent)
	defer cancel()
	registerQuitHandler()

	return runTUI(ctx, a)
}

// runTUI runs the bubbletea program next to the state file watcher. Either
// one stopping stops the other.
func runTUI(ctx context.Context, a *app) error {
	events, unsubscribe := tui.Subscribe(a.store)
	defer unsubscribe()

	model := tui.New(tui.Deps{
		Store:    a.store,
		Chat:     a.chat,
		Events:   events,
		Warnings: a.warnings.C(),
		Accent:   a.cfg.TUI.AccentColor,
		Location: a.location(),
	})

	g, gctx := errgroup.WithContext(ctx)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx))

	watchCtx, stopWatch := context.WithCancel(gctx)
	defer stopWatch()
	if w := a.watcher(); w != nil {
		g.Go(func() error {
			return w.Run(watchCtx)
		})
	}

	g.Go(func() error {
		defer stopWatch()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			// Cancelled by a signal or a failed watcher; the latter is
			// reported by its own goroutine.
			a.logger.Debug("tui stopped", zap.Error(err))
			return nil
		}
		if err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		return nil
	})
	return g.Wait()
}
