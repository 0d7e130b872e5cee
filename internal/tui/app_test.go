package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/chat"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/tasks"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/tui/components"
)

var testNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	store   *store.Store
	backend *store.MemoryBackend
	chat    *chat.Service
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	b := store.NewMemoryBackend()
	s := store.New(b, store.WithIDs(store.NewSequenceIDs("id")))
	s.Initialize()
	svc := chat.NewService(s,
		chat.WithDelay(time.Hour),
		chat.WithClock(func() time.Time { return testNow }),
		chat.WithResponder(chat.ResponderFunc(func(string) string { return "noted" })),
	)
	t.Cleanup(svc.Close)
	return testEnv{store: s, backend: b, chat: svc}
}

func (e testEnv) model() Model {
	return New(Deps{
		Store:    e.store,
		Chat:     e.chat,
		Title:    "Test",
		Location: "/tmp/organiser",
		Now:      func() time.Time { return testNow },
	})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return mm, cmd
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = update(t, m, key(k))
	}
	return m
}

// run executes an action command and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m, _ = update(t, m, cmd())
	return m
}

// submit presses enter on the last field of the open form and stores it.
func submit(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := update(t, m, key("enter"))
	if cmd == nil {
		t.Fatal("expected the form to submit")
	}
	msg, ok := cmd().(components.FormSubmittedMsg)
	if !ok {
		t.Fatalf("expected FormSubmittedMsg, got %T", cmd())
	}
	m, cmd = update(t, m, msg)
	return run(t, m, cmd)
}

func rowTitles(m Model) []string {
	var out []string
	for _, r := range m.list.Rows() {
		out = append(out, r.Title)
	}
	return out
}

func TestNew_Defaults(t *testing.T) {
	m := newTestEnv(t).model()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"width", m.width, 80},
		{"height", m.height, 24},
		{"page", m.Page(), PageDashboard},
		{"mode", m.Mode(), ModeBrowse},
		{"tooSmall", m.layout.TooSmall, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if m.Init() == nil {
		t.Error("Init() should return a non-nil command")
	}
}

func TestUpdate_WindowSize(t *testing.T) {
	m := newTestEnv(t).model()

	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if cmd != nil {
		t.Error("WindowSizeMsg should return nil cmd")
	}
	if m.layout.TooSmall {
		t.Fatal("120x40 should not be too small")
	}
	if !strings.Contains(m.View(), "Period Tracker") {
		t.Error("dashboard view should show the tiles")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	if !strings.Contains(m.View(), "Terminal too small") {
		t.Errorf("expected resize notice, got %q", m.View())
	}
}

func TestPageSwitching(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want Page
	}{
		{"number", []string{"2"}, PageTasks},
		{"six", []string{"6"}, PageChat},
		{"tab", []string{"tab", "tab"}, PageJournal},
		{"shift+tab wraps", []string{"shift+tab"}, PageChat},
		{"out of range ignored", []string{"3", "7"}, PageJournal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(t, newTestEnv(t).model(), tt.keys...)
			if m.Page() != tt.want {
				t.Errorf("page: got %s, want %s", m.Page(), tt.want)
			}
			if m.tabs.Active() != int(tt.want) {
				t.Errorf("tab bar: got %d, want %d", m.tabs.Active(), tt.want)
			}
		})
	}
}

func TestQuit(t *testing.T) {
	m := newTestEnv(t).model()
	_, cmd := update(t, m, key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q: got %T, want tea.QuitMsg", cmd())
	}

	// q is text while searching
	m = press(t, m, "2", "/")
	m, _ = update(t, m, key("q"))
	if m.Mode() != ModeSearch {
		t.Errorf("q in search mode should type, mode is %s", m.Mode())
	}
}

func TestAddTask_ViaForm(t *testing.T) {
	env := newTestEnv(t)
	m := press(t, env.model(), "2", "a")
	if m.Mode() != ModeForm {
		t.Fatalf("a should open the form, mode is %s", m.Mode())
	}

	m = press(t, m, "Buy milk", "enter", "2 pints", "enter", "enter")
	m = submit(t, m)

	if m.Mode() != ModeBrowse {
		t.Errorf("mode after save: got %s, want browse", m.Mode())
	}
	got := env.store.State().Tasks
	if len(got) != 1 {
		t.Fatalf("tasks: got %d, want 1", len(got))
	}
	if got[0].Title != "Buy milk" || got[0].Description != "2 pints" || got[0].Priority != "medium" {
		t.Errorf("stored task: %+v", got[0])
	}
	if !strings.Contains(m.status, "Buy milk") {
		t.Errorf("status: got %q", m.status)
	}
	if len(m.list.Rows()) != 1 {
		t.Errorf("rows: got %v", rowTitles(m))
	}
}

func TestAddTask_ValidationKeepsFormOpen(t *testing.T) {
	env := newTestEnv(t)
	m := press(t, env.model(), "2", "a", "enter", "enter", "enter")
	m = submit(t, m)

	if m.Mode() != ModeForm {
		t.Fatalf("invalid form should stay open, mode is %s", m.Mode())
	}
	if !strings.Contains(m.form.View(), "title is required") {
		t.Errorf("form should show the error: %q", m.form.View())
	}
	if n := len(env.store.State().Tasks); n != 0 {
		t.Errorf("tasks: got %d, want 0", n)
	}

	m = press(t, m, "esc")
	m, _ = update(t, m, components.FormCancelledMsg{ID: "task"})
	if m.Mode() != ModeBrowse {
		t.Errorf("esc should close the form, mode is %s", m.Mode())
	}
}

func TestToggleAndDeleteTask(t *testing.T) {
	env := newTestEnv(t)
	if _, err := tasks.Add(env.store, tasks.Draft{Title: "Buy milk"}, testNow); err != nil {
		t.Fatal(err)
	}
	m := press(t, env.model(), "2")

	m, cmd := update(t, m, key(" "))
	m = run(t, m, cmd)
	if !env.store.State().Tasks[0].Completed {
		t.Error("space should complete the task")
	}
	if rows := m.list.Rows(); len(rows) != 1 || !rows[0].Done {
		t.Errorf("row should render as done: %+v", rows)
	}

	m, cmd = update(t, m, key("d"))
	m = run(t, m, cmd)
	if n := len(env.store.State().Tasks); n != 0 {
		t.Errorf("tasks after delete: got %d, want 0", n)
	}
	if len(m.list.Rows()) != 0 {
		t.Errorf("rows after delete: %v", rowTitles(m))
	}
}

func TestEditTask(t *testing.T) {
	env := newTestEnv(t)
	if _, err := tasks.Add(env.store, tasks.Draft{Title: "Buy milk", Priority: "low"}, testNow); err != nil {
		t.Fatal(err)
	}
	m := press(t, env.model(), "2", "e")
	if m.Mode() != ModeForm {
		t.Fatalf("e should open the edit form, mode is %s", m.Mode())
	}
	if got := m.form.Values()["priority"]; got != "low" {
		t.Errorf("edit form priority: got %q, want low", got)
	}

	m = press(t, m, " and eggs", "enter", "enter", "enter")
	submit(t, m)

	got := env.store.State().Tasks
	if len(got) != 1 || got[0].Title != "Buy milk and eggs" || got[0].Priority != "low" {
		t.Errorf("edited task: %+v", got)
	}
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	for _, title := range []string{"Buy milk", "Call mum", "Milk the cow"} {
		if _, err := tasks.Add(env.store, tasks.Draft{Title: title}, testNow); err != nil {
			t.Fatal(err)
		}
	}
	m := press(t, env.model(), "2", "/", "milk")
	if m.Mode() != ModeSearch {
		t.Fatalf("mode: got %s, want search", m.Mode())
	}
	if n := len(m.list.Rows()); n != 2 {
		t.Errorf("filtered rows: got %v", rowTitles(m))
	}

	m = press(t, m, "enter")
	if m.Mode() != ModeBrowse || m.filters[PageTasks] != "milk" {
		t.Errorf("enter should keep the filter: mode %s filter %q", m.Mode(), m.filters[PageTasks])
	}

	m = press(t, m, "3")
	if m.filters[PageJournal] != "" {
		t.Error("filters are per page")
	}

	m = press(t, m, "2", "/", "esc")
	if m.filters[PageTasks] != "" || len(m.list.Rows()) != 3 {
		t.Errorf("esc should clear the filter: %q %v", m.filters[PageTasks], rowTitles(m))
	}
}

func TestStateChanged_Refreshes(t *testing.T) {
	env := newTestEnv(t)
	events, unsubscribe := Subscribe(env.store)
	defer unsubscribe()

	m := New(Deps{Store: env.store, Chat: env.chat, Events: events, Now: func() time.Time { return testNow }})
	m = press(t, m, "2")

	if _, err := tasks.Add(env.store, tasks.Draft{Title: "From elsewhere"}, testNow); err != nil {
		t.Fatal(err)
	}
	m, cmd := update(t, m, stateChangedMsg(<-events))
	if cmd == nil {
		t.Error("state change should keep listening")
	}
	if titles := rowTitles(m); len(titles) != 1 || !strings.Contains(titles[0], "From elsewhere") {
		t.Errorf("rows: got %v", titles)
	}
}

func TestWarning_ShownInFooter(t *testing.T) {
	env := newTestEnv(t)
	m := env.model()
	m, _ = update(t, m, warningMsg{err: errors.New("store: persist tasks: disk full")})
	if !strings.Contains(m.View(), "disk full") {
		t.Error("footer should show the warning")
	}

	// a later clean change clears it
	m, _ = update(t, m, stateChangedMsg{State: env.store.State(), Change: store.Change{Section: "tasks", Op: store.OpAdd}})
	if m.warning != "" {
		t.Errorf("warning should clear once the store is clean, got %q", m.warning)
	}
}

func TestPersistFailure_KeepsWorking(t *testing.T) {
	env := newTestEnv(t)
	env.backend.SetFailWrites(errors.New("disk full"))
	m := press(t, env.model(), "2", "a", "Unsaved", "enter", "enter", "enter")
	m = submit(t, m)

	if m.Mode() != ModeBrowse {
		t.Errorf("a write failure is not a form error, mode is %s", m.Mode())
	}
	if !m.dirty {
		t.Error("model should show unsaved state")
	}
	if !strings.Contains(m.View(), "unsaved") {
		t.Error("header should mark unsaved state")
	}
	if len(m.list.Rows()) != 1 {
		t.Errorf("record should stay in memory: %v", rowTitles(m))
	}
}

func TestChat_OpenSendAndLeave(t *testing.T) {
	env := newTestEnv(t)
	conv, err := env.chat.CreateConversation("Family")
	if err != nil {
		t.Fatal(err)
	}
	m := press(t, env.model(), "6", "enter")
	if m.Mode() != ModeChat || m.openConv != conv.ID {
		t.Fatalf("enter should open the conversation: mode %s conv %q", m.Mode(), m.openConv)
	}

	m = press(t, m, "hello there")
	m, cmd := update(t, m, key("enter"))
	m = run(t, m, cmd)

	msgs := env.chat.Messages(conv.ID)
	if len(msgs) != 1 || msgs[0].Content != "hello there" || msgs[0].Sender != store.SenderUser {
		t.Fatalf("messages: %+v", msgs)
	}
	if m.input.Value() != "" {
		t.Errorf("input should clear after send, got %q", m.input.Value())
	}
	if !strings.Contains(m.transcript.View(), "hello there") {
		t.Errorf("transcript should show the message: %q", m.transcript.View())
	}

	m = press(t, m, "esc")
	if m.Mode() != ModeBrowse {
		t.Errorf("esc should leave the conversation, mode is %s", m.Mode())
	}
}

func TestChat_DeletedWhileOpen(t *testing.T) {
	env := newTestEnv(t)
	conv, err := env.chat.CreateConversation("Work")
	if err != nil {
		t.Fatal(err)
	}
	m := press(t, env.model(), "6", "enter")

	if _, err := env.chat.DeleteConversation(conv.ID); err != nil {
		t.Fatal(err)
	}
	m, _ = update(t, m, stateChangedMsg{State: env.store.State()})
	if m.Mode() != ModeBrowse {
		t.Errorf("deleted conversation should close, mode is %s", m.Mode())
	}
}

func TestPages_Render(t *testing.T) {
	env := newTestEnv(t)
	m := env.model()
	for _, tt := range []struct {
		key  string
		want string
	}{
		{"2", "No tasks yet"},
		{"3", "No entries yet"},
		{"4", "Last six months"},
		{"5", "March 2024"},
		{"6", "No conversations yet"},
	} {
		m = press(t, m, tt.key)
		if view := m.View(); !strings.Contains(view, tt.want) {
			t.Errorf("page %s: view missing %q", tt.key, tt.want)
		}
	}
}
