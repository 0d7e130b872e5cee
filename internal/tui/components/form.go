package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FormSubmittedMsg is emitted when enter is pressed on the last field.
type FormSubmittedMsg struct {
	ID     string
	Values map[string]string
}

// FormCancelledMsg is emitted when esc is pressed.
type FormCancelledMsg struct{ ID string }

// Field describes one input of a Form.
type Field struct {
	Key         string
	Label       string
	Placeholder string
	Value       string
}

var (
	formLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Width(14)
	formErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF3B30")).Bold(true)
)

// Form is a vertical stack of labelled text inputs. tab/shift+tab (or
// up/down) move between fields, enter advances and submits on the last
// field, esc cancels.
type Form struct {
	id     string
	title  string
	fields []Field
	inputs []textinput.Model
	focus  int
	err    string
	width  int
}

// NewForm creates a form with the first field focused.
func NewForm(id, title string, fields []Field, width int) Form {
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Placeholder = f.Placeholder
		ti.SetValue(f.Value)
		ti.Prompt = ""
		ti.Width = max(width-18, 10)
		inputs[i] = ti
	}
	form := Form{id: id, title: title, fields: fields, inputs: inputs, width: width}
	if len(inputs) > 0 {
		form.inputs[0].Focus()
	}
	return form
}

// ID returns the identifier the form was created with.
func (f Form) ID() string { return f.id }

// Focused returns the index of the focused field.
func (f Form) Focused() int { return f.focus }

// Values returns the trimmed value of every field by key.
func (f Form) Values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for i, fl := range f.fields {
		out[fl.Key] = strings.TrimSpace(f.inputs[i].Value())
	}
	return out
}

// SetError returns a form showing msg under the fields. An empty msg clears it.
func (f Form) SetError(msg string) Form {
	f.err = msg
	return f
}

func (f Form) move(delta int) (Form, tea.Cmd) {
	if len(f.inputs) == 0 {
		return f, nil
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f, f.inputs[f.focus].Focus()
}

// Update handles navigation and forwards other keys to the focused input.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(f.inputs) == 0 {
		return f, nil
	}
	switch key.String() {
	case "esc":
		id := f.id
		return f, func() tea.Msg { return FormCancelledMsg{ID: id} }
	case "tab", "down":
		return f.move(1)
	case "shift+tab", "up":
		return f.move(-1)
	case "enter":
		if f.focus < len(f.inputs)-1 {
			return f.move(1)
		}
		id, values := f.id, f.Values()
		return f, func() tea.Msg { return FormSubmittedMsg{ID: id, Values: values} }
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// View renders the title, one line per field and the error, if any.
func (f Form) View() string {
	var b strings.Builder
	b.WriteString(f.title)
	b.WriteString("\n\n")
	for i, fl := range f.fields {
		marker := "  "
		if i == f.focus {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%s %s\n", marker, formLabelStyle.Render(fl.Label), f.inputs[i].View())
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(formErrorStyle.Render(f.err))
	}
	b.WriteString("\n")
	b.WriteString(formLabelStyle.UnsetWidth().Render("tab: next field  enter: save  esc: cancel"))
	return b.String()
}
