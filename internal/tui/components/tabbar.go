// Package components provides reusable TUI components for the organiser.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// tabInactiveStyle renders inactive tabs in a dimmed style.
var tabInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// TabBar is a stateless tab bar component that renders a row of numbered,
// labelled tabs. The active tab is rendered with the accent style.
type TabBar struct {
	tabs   []string
	active int
	width  int
	accent lipgloss.Style
}

// NewTabBar creates a TabBar with the given tab titles. The first tab is active.
func NewTabBar(tabs []string, accent lipgloss.Style) TabBar {
	return TabBar{tabs: tabs, accent: accent}
}

// Active returns the index of the currently active tab.
func (t TabBar) Active() int {
	return t.active
}

// SetActive returns a TabBar with tab i active. Out-of-range values are ignored.
func (t TabBar) SetActive(i int) TabBar {
	if i >= 0 && i < len(t.tabs) {
		t.active = i
	}
	return t
}

// Next returns a TabBar with the next tab active (wraps around).
func (t TabBar) Next() TabBar {
	if len(t.tabs) == 0 {
		return t
	}
	t.active = (t.active + 1) % len(t.tabs)
	return t
}

// Prev returns a TabBar with the previous tab active (wraps around).
func (t TabBar) Prev() TabBar {
	if len(t.tabs) == 0 {
		return t
	}
	t.active = (t.active + len(t.tabs) - 1) % len(t.tabs)
	return t
}

// SetWidth returns a TabBar configured for the given render width.
func (t TabBar) SetWidth(w int) TabBar {
	t.width = w
	return t
}

// View renders the tab bar as a single line: "1 Dashboard │ 2 Tasks │ …".
func (t TabBar) View() string {
	if len(t.tabs) == 0 {
		return ""
	}

	parts := make([]string, len(t.tabs))
	for i, label := range t.tabs {
		label = fmt.Sprintf("%d %s", i+1, label)
		if i == t.active {
			parts[i] = t.accent.Render(label)
		} else {
			parts[i] = tabInactiveStyle.Render(label)
		}
	}

	line := " " + strings.Join(parts, "  │  ")
	if t.width > 0 {
		return lipgloss.NewStyle().MaxWidth(t.width).Render(line)
	}
	return line
}
