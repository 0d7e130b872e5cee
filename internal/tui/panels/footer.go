package panels

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF9500")).Bold(true)
)

// FooterProps holds all data needed to render the footer bar.
type FooterProps struct {
	Page    string // "Dashboard", "Tasks", …
	Mode    string // "browse", "search", "form", "chat"
	Search  string // active search filter on this page
	Status  string // outcome of the last action
	Warning string // last store warning; takes precedence over Status
}

// RenderFooter renders the context-sensitive footer bar.
// Left side: warning, status or filter. Right side: keybinding hints.
func RenderFooter(props FooterProps, width int) string {
	var left string
	switch {
	case props.Warning != "":
		left = warningStyle.Render("⚠ " + props.Warning)
	case props.Status != "":
		left = props.Status
	case props.Search != "":
		left = "filter: " + props.Search
	}

	right := modeHints(props.Mode, props.Page)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}

	return footerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// modeHints returns the keybinding hints for the current mode and page.
func modeHints(mode, page string) string {
	switch mode {
	case "search":
		return "type to filter  enter:keep  esc:clear"
	case "form":
		return "tab:next field  enter:save  esc:cancel"
	case "chat":
		return "enter:send  pgup/pgdn:scroll  esc:back"
	}
	return pageHints(page) + "  1-6/tab:page  q:quit"
}

// pageHints returns the browse-mode hints for a page.
func pageHints(page string) string {
	switch page {
	case "Tasks":
		return "j/k:move  a:add  e:edit  space:toggle  d:delete  /:search"
	case "Journal":
		return "j/k:move  a:add  e:edit  d:delete  /:search"
	case "Finance":
		return "j/k:move  a:add  b:budget  d:delete  /:search"
	case "Period":
		return "j/k:move  a:cycle  s:symptom  d:delete"
	case "Chat":
		return "j/k:move  a:new  enter:open  d:delete  /:search"
	default:
		return ""
	}
}
