package tui

import (
	"sync"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
)

// Event is one store change as seen by the UI.
type Event struct {
	State  store.State
	Change store.Change
}

// Subscribe registers an observer on s and returns a channel of its changes
// plus a function that unsubscribes and closes the channel.
//
// The channel holds at most one undelivered event. A newer change replaces
// an older one still waiting, since every event carries the full state.
func Subscribe(s *store.Store) (<-chan Event, func()) {
	ch := make(chan Event, 1)
	unsub := s.Subscribe(func(st store.State, c store.Change) {
		ev := Event{State: st, Change: c}
		for {
			select {
			case ch <- ev:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	})

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			unsub()
			close(ch)
		})
	}
}

// Warnings collects non-fatal store warnings for the footer. Report never
// blocks; when the UI is behind, the oldest pending warning is dropped.
type Warnings struct {
	ch chan error
}

// NewWarnings creates a warnings queue holding up to size pending errors.
func NewWarnings(size int) *Warnings {
	if size < 1 {
		size = 1
	}
	return &Warnings{ch: make(chan error, size)}
}

// Report queues err. It is safe to call from any goroutine.
func (w *Warnings) Report(err error) {
	if w == nil || err == nil {
		return
	}
	for {
		select {
		case w.ch <- err:
			return
		default:
		}
		select {
		case <-w.ch:
		default:
		}
	}
}

// C returns the receive side of the queue.
func (w *Warnings) C() <-chan error {
	if w == nil {
		return nil
	}
	return w.ch
}
