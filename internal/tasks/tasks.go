// Package tasks implements the to-do list on top of the shared store.
package tasks

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
)

// DateLayout is the layout of due dates.
const DateLayout = "2006-01-02"

// Priorities in display order.
var Priorities = []string{"low", "medium", "high"}

// Filter values meaning "no restriction".
const (
	All       = "all"
	Completed = "completed"
	Pending   = "pending"
)

// ErrTitleRequired is returned for a blank title.
var ErrTitleRequired = errors.New("tasks: title is required")

// Draft is the user-editable part of a task.
type Draft struct {
	Title       string
	Description string
	Priority    string
	DueDate     string
}

// Validate normalizes d in place and reports the first problem.
func (d *Draft) Validate() error {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.DueDate = strings.TrimSpace(d.DueDate)
	if d.Title == "" {
		return ErrTitleRequired
	}
	if d.Priority == "" {
		d.Priority = "medium"
	}
	if !slices.Contains(Priorities, d.Priority) {
		return fmt.Errorf("tasks: unknown priority %q", d.Priority)
	}
	if d.DueDate != "" {
		if _, err := time.Parse(DateLayout, d.DueDate); err != nil {
			return fmt.Errorf("tasks: due date %q: want YYYY-MM-DD", d.DueDate)
		}
	}
	return nil
}

// New builds a pending task from d, stamped with now.
func New(d Draft, now time.Time) (store.Task, error) {
	if err := d.Validate(); err != nil {
		return store.Task{}, err
	}
	return store.Task{
		Title:       d.Title,
		Description: d.Description,
		Priority:    d.Priority,
		DueDate:     d.DueDate,
		CreatedAt:   now,
	}, nil
}

// Add validates d and stores the new task.
func Add(s *store.Store, d Draft, now time.Time) (store.Task, error) {
	t, err := New(d, now)
	if err != nil {
		return store.Task{}, err
	}
	return store.AddItem(s, store.Tasks, t)
}

// Edit replaces the editable fields of task id with d.
func Edit(s *store.Store, id string, d Draft) (store.Task, bool, error) {
	if err := d.Validate(); err != nil {
		return store.Task{}, false, err
	}
	return store.UpdateItem(s, store.Tasks, id, store.Patch{
		"title":       d.Title,
		"description": d.Description,
		"priority":    d.Priority,
		"dueDate":     d.DueDate,
	})
}

// Toggle flips the completed flag of task id.
func Toggle(s *store.Store, id string) (store.Task, bool, error) {
	t, ok := store.Find(s, store.Tasks, id)
	if !ok {
		return store.Task{}, false, nil
	}
	return store.UpdateItem(s, store.Tasks, id, store.Patch{"completed": !t.Completed})
}

// Query selects tasks. Zero values match everything.
type Query struct {
	Search   string
	Priority string // all, low, medium, high
	Status   string // all, completed, pending
}

// Filter returns the tasks matching q, in stored order.
func Filter(tasks []store.Task, q Query) []store.Task {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]store.Task, 0, len(tasks))
	for _, t := range tasks {
		if needle != "" &&
			!strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		if q.Priority != "" && q.Priority != All && t.Priority != q.Priority {
			continue
		}
		switch q.Status {
		case Completed:
			if !t.Completed {
				continue
			}
		case Pending:
			if t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// Overdue reports whether t is pending with a due date before today.
func Overdue(t store.Task, now time.Time) bool {
	if t.Completed || t.DueDate == "" {
		return false
	}
	due, err := time.ParseInLocation(DateLayout, t.DueDate, now.Location())
	if err != nil {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return due.Before(today)
}

// DueOn reports whether t is pending and due on the same calendar day as now.
func DueOn(t store.Task, now time.Time) bool {
	return !t.Completed && t.DueDate == now.Format(DateLayout)
}

// Stats summarizes a task list.
type Stats struct {
	Total     int
	Completed int
	Pending   int
	Overdue   int
}

// Summarize counts tasks by status.
func Summarize(tasks []store.Task, now time.Time) Stats {
	var st Stats
	for _, t := range tasks {
		st.Total++
		if t.Completed {
			st.Completed++
		} else {
			st.Pending++
		}
		if Overdue(t, now) {
			st.Overdue++
		}
	}
	return st
}
