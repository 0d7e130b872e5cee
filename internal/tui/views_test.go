package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer message", 8, "a longe…"},
		{"multi\nline  text", 20, "multi line text"},
		{"abc", 1, "a"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d): got %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestRowsFor(t *testing.T) {
	st := store.DefaultState()
	st.Tasks = []store.Task{
		{ID: "t1", Title: "Pay rent", Priority: "high", DueDate: "2024-03-01"},
		{ID: "t2", Title: "Read", Priority: "low", Completed: true},
	}
	st.Finances.Transactions = []store.Transaction{
		{ID: "x1", Description: "Salary", Amount: 100, Type: "income", Category: "salary", Date: "2024-03-01"},
		{ID: "x2", Description: "Lunch", Amount: 12.5, Type: "expense", Category: "food", Date: "2024-03-02"},
	}
	st.Period.Cycles = []store.Cycle{
		{ID: "c1", StartDate: "2024-01-05", EndDate: "2024-01-09", Flow: "medium"},
		{ID: "c2", StartDate: "2024-02-02", Flow: "light", Symptoms: []string{"cramps"}},
	}
	st.Chat.Conversations = []store.Conversation{
		{ID: "v1", Name: "Family", LastMessage: "see you at dinner tonight, bring the dessert please"},
	}

	t.Run("tasks", func(t *testing.T) {
		rows := rowsFor(PageTasks, st, "", testNow)
		if len(rows) != 2 {
			t.Fatalf("got %d rows, want 2", len(rows))
		}
		byID := map[string]bool{}
		for _, r := range rows {
			byID[r.ID] = true
			switch r.ID {
			case "t1":
				if !r.Alert || !strings.Contains(r.Detail, "due 2024-03-01") {
					t.Errorf("overdue task row: %+v", r)
				}
			case "t2":
				if !r.Done || r.Alert {
					t.Errorf("completed task row: %+v", r)
				}
			}
		}
		if !byID["t1"] || !byID["t2"] {
			t.Errorf("rows: %+v", rows)
		}
	})

	t.Run("task filter", func(t *testing.T) {
		rows := rowsFor(PageTasks, st, "rent", testNow)
		if len(rows) != 1 || rows[0].ID != "t1" {
			t.Errorf("rows: %+v", rows)
		}
	})

	t.Run("transactions newest first", func(t *testing.T) {
		rows := rowsFor(PageFinance, st, "", testNow)
		if len(rows) != 2 {
			t.Fatalf("got %d rows, want 2", len(rows))
		}
		if !strings.Contains(rows[0].Title, "-$12.50") || !strings.Contains(rows[0].Title, "Lunch") {
			t.Errorf("first row: %q", rows[0].Title)
		}
		if !strings.Contains(rows[1].Title, "+$100.00") {
			t.Errorf("second row: %q", rows[1].Title)
		}
		if !strings.HasSuffix(rows[0].Detail, "  2024-03-02") {
			t.Errorf("detail: %q", rows[0].Detail)
		}
	})

	t.Run("cycles newest first", func(t *testing.T) {
		rows := rowsFor(PagePeriod, st, "", testNow)
		if len(rows) != 2 {
			t.Fatalf("got %d rows, want 2", len(rows))
		}
		if rows[0].Title != "2024-02-02 → ongoing" || rows[0].Detail != "light  cramps" {
			t.Errorf("first row: %+v", rows[0])
		}
		if rows[1].Title != "2024-01-05 → 2024-01-09" {
			t.Errorf("second row: %+v", rows[1])
		}
	})

	t.Run("conversations", func(t *testing.T) {
		rows := rowsFor(PageChat, st, "fam", testNow)
		if len(rows) != 1 || rows[0].Title != "Family" {
			t.Fatalf("rows: %+v", rows)
		}
		if n := len([]rune(rows[0].Detail)); n != 30 {
			t.Errorf("preview length: got %d, want 30", n)
		}
	})

	t.Run("dashboard has no rows", func(t *testing.T) {
		if rows := rowsFor(PageDashboard, st, "", testNow); rows != nil {
			t.Errorf("got %+v, want nil", rows)
		}
	})
}

func TestCalendarView(t *testing.T) {
	st := store.DefaultState()
	st.Period.Symptoms = []store.Symptom{{ID: "s1", Date: "2024-03-12", Type: "cramps", Severity: "mild"}}

	got := calendarView(st, testNow)
	lines := strings.Split(got, "\n")

	// March 2024 starts on a Friday: a header plus five weeks.
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), got)
	}
	if lines[0] != "Mo  Tu  We  Th  Fr  Sa  Su" {
		t.Errorf("header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], strings.Repeat("    ", 4)+" 1") {
		t.Errorf("first week should start on Friday: %q", lines[1])
	}
	if !strings.Contains(lines[3], "12• ") {
		t.Errorf("symptom marker missing on the 12th: %q", lines[3])
	}
	if !strings.Contains(lines[5], "31") {
		t.Errorf("last week: %q", lines[5])
	}
}

func TestDashboardView(t *testing.T) {
	st := store.DefaultState()
	st.Tasks = []store.Task{{ID: "t1", Title: "Pay rent", Priority: "high"}}

	got := dashboardView(st, testNow, 118, NewTheme(""))
	for _, want := range []string{"Organiser", "Journal", "Finance", "Period Tracker", "Chat"} {
		if !strings.Contains(got, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestPeriodDetail_NoPrediction(t *testing.T) {
	got := periodDetail(store.DefaultState(), testNow, NewTheme(""))
	if !strings.Contains(got, "March 2024") {
		t.Error("missing month title")
	}
	if !strings.Contains(got, "Track two cycles to see predictions") {
		t.Error("missing prediction hint")
	}
}

func TestMessageLines(t *testing.T) {
	ts := time.Date(2024, 3, 15, 9, 30, 0, 0, time.Local)
	msgs := []store.Message{
		{ID: "m1", Content: "hello", Sender: store.SenderUser, Timestamp: ts},
		{ID: "m2", Content: strings.Repeat("word ", 12), Sender: store.SenderBot, Timestamp: ts},
	}

	lines := messageLines(msgs, 32)
	if len(lines) < 3 {
		t.Fatalf("expected the bot reply to wrap, got %q", lines)
	}
	if !strings.HasPrefix(lines[0], "09:30 you:") || !strings.Contains(lines[0], "hello") {
		t.Errorf("user line: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "09:30 bot:") {
		t.Errorf("bot line: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], strings.Repeat(" ", 11)) {
		t.Errorf("continuation should be indented: %q", lines[2])
	}
}
