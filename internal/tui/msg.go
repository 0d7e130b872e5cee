package tui

import "time"

// stateChangedMsg carries the state after a store change.
type stateChangedMsg Event

// eventsClosedMsg signals the event channel closed.
type eventsClosedMsg struct{}

// warningMsg carries a non-fatal store warning for the footer.
type warningMsg struct{ err error }

// tickMsg is sent every second for the clock.
type tickMsg time.Time

// actionDoneMsg reports the outcome of a store call made from a key press
// or a form. form is the id of the submitted form, "" for key actions.
type actionDoneMsg struct {
	form   string
	status string
	err    error
}
