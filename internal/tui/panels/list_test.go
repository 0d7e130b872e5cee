package panels

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func newList() RecordList {
	return NewRecordList(60, 10, lipgloss.NewStyle().Bold(true))
}

func threeRows() []Row {
	return []Row{
		{ID: "a", Title: "Buy milk"},
		{ID: "b", Title: "Call mum", Done: true},
		{ID: "c", Title: "Pay rent", Alert: true, Detail: "due 2024-01-01"},
	}
}

func TestRecordList_Empty(t *testing.T) {
	p := newList().SetEmptyText("No tasks yet")
	if _, ok := p.Selected(); ok {
		t.Error("expected no selection on empty list")
	}
	if !strings.Contains(p.View(), "No tasks yet") {
		t.Errorf("View() should show the empty text; got %q", p.View())
	}
}

func TestRecordList_Navigation(t *testing.T) {
	p := newList().SetRows(threeRows())

	tests := []struct {
		key    string
		wantID string
	}{
		{"j", "b"},
		{"j", "c"},
		{"j", "c"}, // stays at the end
		{"k", "b"},
		{"k", "a"},
		{"k", "a"},
	}
	for _, tt := range tests {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.key)})
		sel, ok := p.Selected()
		if !ok || sel.ID != tt.wantID {
			t.Errorf("after %q: got %q, want %q", tt.key, sel.ID, tt.wantID)
		}
	}
}

func TestRecordList_SetRowsKeepsSelection(t *testing.T) {
	p := newList().SetRows(threeRows())
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})

	// a new row ahead of the selection moves it down one place
	rows := append([]Row{{ID: "z", Title: "First"}}, threeRows()...)
	p = p.SetRows(rows)
	if sel, _ := p.Selected(); sel.ID != "c" {
		t.Errorf("selection should follow the record: got %q, want %q", sel.ID, "c")
	}

	// deleting the selected record clamps to the last row
	p = p.SetRows(rows[:2])
	if sel, _ := p.Selected(); sel.ID != "a" {
		t.Errorf("selection after delete: got %q, want %q", sel.ID, "a")
	}
	if p.Index() != 1 {
		t.Errorf("Index: got %d, want 1", p.Index())
	}
}

func TestRowDelegate_Render(t *testing.T) {
	p := newList().SetRows(threeRows())
	var buf bytes.Buffer
	d := rowDelegate{selected: lipgloss.NewStyle()}

	d.Render(&buf, p.list, 0, rowItem{row: threeRows()[0]})
	if got := buf.String(); !strings.HasPrefix(got, "> ") || !strings.Contains(got, "Buy milk") {
		t.Errorf("selected row: got %q", got)
	}

	buf.Reset()
	d.Render(&buf, p.list, 2, rowItem{row: threeRows()[2]})
	if got := buf.String(); !strings.HasPrefix(got, "  ") || !strings.Contains(got, "due 2024-01-01") {
		t.Errorf("unselected row with detail: got %q", got)
	}

	buf.Reset()
	var other list.Item = otherItem{}
	d.Render(&buf, p.list, 0, other)
	if buf.Len() != 0 {
		t.Errorf("foreign items should render nothing, got %q", buf.String())
	}
}

type otherItem struct{}

func (otherItem) FilterValue() string { return "" }

func TestRecordList_SetSize(t *testing.T) {
	p := newList().SetSize(100, 30)
	if p.width != 100 || p.height != 30 {
		t.Errorf("SetSize: got %dx%d, want 100x30", p.width, p.height)
	}
}
