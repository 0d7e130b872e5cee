// Package panels provides the bars and list panel of the organiser TUI.
package panels

import (
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeaderProps holds all data needed to render the header bar.
// Page is a string to avoid importing the parent tui package.
type HeaderProps struct {
	Title    string
	Page     string
	Location string // where state is persisted
	Dirty    bool   // a write failed and has not been retried yet
	Clock    time.Time
}

// AbbreviatePath returns a display-friendly path, replacing the home directory
// with "~" and converting backslashes to forward slashes.
func AbbreviatePath(path string) string {
	if path == "" {
		return ""
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" && strings.HasPrefix(path, home) {
		path = "~" + path[len(home):]
	}
	return strings.ReplaceAll(path, "\\", "/")
}

// RenderHeader renders the header bar. accentStyle is applied to the full
// header bar width.
func RenderHeader(props HeaderProps, width int, accentStyle lipgloss.Style) string {
	name := "Organiser"
	if props.Title != "" {
		name = props.Title
	}

	parts := []string{"🗂  " + name}
	if props.Page != "" {
		parts = append(parts, props.Page)
	}
	if props.Location != "" {
		parts = append(parts, "store: "+AbbreviatePath(props.Location))
	}
	if props.Dirty {
		parts = append(parts, "● unsaved")
	}
	if !props.Clock.IsZero() {
		parts = append(parts, props.Clock.Format("Mon 2 Jan 15:04"))
	}

	content := strings.Join(parts, "  │  ")
	return accentStyle.Width(width).Render(content)
}
