package panels

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Row is one record as shown in a RecordList.
type Row struct {
	ID     string
	Title  string
	Detail string
	Done   bool // rendered struck through
	Alert  bool // rendered in the alert color
}

// rowItem implements list.Item for a Row.
type rowItem struct{ row Row }

func (i rowItem) Title() string       { return i.row.Title }
func (i rowItem) Description() string { return i.row.Detail }
func (i rowItem) FilterValue() string { return i.row.Title }

var (
	rowDoneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Strikethrough(true)
	rowAlertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF3B30"))
	rowDetail     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// rowDelegate renders each row on one line: title then dimmed detail.
type rowDelegate struct {
	selected lipgloss.Style
}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(rowItem)
	if !ok {
		return
	}
	title := item.row.Title
	switch {
	case item.row.Done:
		title = rowDoneStyle.Render(title)
	case item.row.Alert:
		title = rowAlertStyle.Render(title)
	}
	s := title
	if item.row.Detail != "" {
		s += "  " + rowDetail.Render(item.row.Detail)
	}
	if index == m.Index() {
		s = d.selected.Render("> ") + s
	} else {
		s = "  " + s
	}
	fmt.Fprint(w, s)
}

// RecordList is a selectable list of records.
type RecordList struct {
	list   list.Model
	rows   []Row
	empty  string
	width  int
	height int
}

// NewRecordList creates an empty list. selected styles the cursor.
func NewRecordList(w, h int, selected lipgloss.Style) RecordList {
	l := list.New(nil, rowDelegate{selected: selected}, w, h)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	return RecordList{
		list:   l,
		empty:  "Nothing here yet",
		width:  w,
		height: h,
	}
}

// SetEmptyText sets the message shown when there are no rows.
func (p RecordList) SetEmptyText(s string) RecordList {
	p.empty = s
	return p
}

// SetRows replaces the rows. The cursor stays on the same record when it is
// still present, otherwise it is clamped to the list.
func (p RecordList) SetRows(rows []Row) RecordList {
	var keep string
	if sel, ok := p.Selected(); ok {
		keep = sel.ID
	}
	p.rows = rows
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = rowItem{row: r}
	}
	p.list.SetItems(items)

	idx := -1
	for i, r := range rows {
		if keep != "" && r.ID == keep {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = min(p.list.Index(), len(rows)-1)
	}
	if idx >= 0 {
		p.list.Select(idx)
	}
	return p
}

// Rows returns the rows currently shown.
func (p RecordList) Rows() []Row {
	return p.rows
}

// Selected returns the row under the cursor.
func (p RecordList) Selected() (Row, bool) {
	if item, ok := p.list.SelectedItem().(rowItem); ok {
		return item.row, true
	}
	return Row{}, false
}

// Index returns the cursor position.
func (p RecordList) Index() int {
	return p.list.Index()
}

// SetSize resizes the panel.
func (p RecordList) SetSize(w, h int) RecordList {
	p.width = w
	p.height = h
	p.list.SetSize(w, h)
	return p
}

// Update handles cursor movement.
func (p RecordList) Update(msg tea.Msg) (RecordList, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyDown})
		case "k", "up":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyUp})
		default:
			p.list, cmd = p.list.Update(msg)
		}
	default:
		p.list, cmd = p.list.Update(msg)
	}
	return p, cmd
}

// View renders the list, or the empty message when there are no rows.
func (p RecordList) View() string {
	if len(p.rows) == 0 {
		return lipgloss.NewStyle().
			Width(p.width).Height(p.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color("#888888")).
			Render(p.empty)
	}
	return p.list.View()
}
