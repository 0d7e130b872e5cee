package tui

import (
	"errors"
	"testing"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/tasks"
)

func TestSubscribe_CoalescesToLatest(t *testing.T) {
	env := newTestEnv(t)
	events, closeFn := Subscribe(env.store)
	defer closeFn()

	for _, title := range []string{"one", "two", "three"} {
		if _, err := tasks.Add(env.store, tasks.Draft{Title: title}, testNow); err != nil {
			t.Fatal(err)
		}
	}

	ev := <-events
	if got := len(ev.State.Tasks); got != 3 {
		t.Errorf("latest event tasks: got %d, want 3", got)
	}
	if ev.Change.Op != store.OpAdd || ev.Change.Section != "tasks" {
		t.Errorf("change: got %+v", ev.Change)
	}
	select {
	case extra := <-events:
		t.Errorf("expected a single pending event, got another: %+v", extra.Change)
	default:
	}
}

func TestSubscribe_CloseStopsDelivery(t *testing.T) {
	env := newTestEnv(t)
	events, closeFn := Subscribe(env.store)
	closeFn()
	closeFn() // second call is a no-op

	if _, err := tasks.Add(env.store, tasks.Draft{Title: "after close"}, testNow); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-events; ok {
		t.Error("channel should be closed and empty")
	}
}

func TestWarnings_DropOldest(t *testing.T) {
	w := NewWarnings(2)
	first, second, third := errors.New("first"), errors.New("second"), errors.New("third")
	w.Report(first)
	w.Report(nil)
	w.Report(second)
	w.Report(third)

	var got []error
	for range 2 {
		got = append(got, <-w.C())
	}
	if got[0] != second || got[1] != third {
		t.Errorf("got %v, want [second third]", got)
	}
	select {
	case err := <-w.C():
		t.Errorf("unexpected extra warning %v", err)
	default:
	}
}

func TestWarnings_NilSafe(t *testing.T) {
	var w *Warnings
	w.Report(errors.New("ignored"))
	if w.C() != nil {
		t.Error("nil Warnings should have a nil channel")
	}
	if NewWarnings(0).C() == nil {
		t.Error("size below one should still make a queue")
	}
}
