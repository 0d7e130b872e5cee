package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds accent-color-derived styles.
type Theme struct {
	accentStyle   lipgloss.Style // header background
	titleStyle    lipgloss.Style // section titles and the selected row
	cardStyle     lipgloss.Style // dashboard tiles
	borderFocused lipgloss.Style // body border
	inputBorder   lipgloss.Style // forms and the chat input
}

// NewTheme creates a Theme from a hex accent color string (e.g. "#007AFF").
// If accentColor is empty, the default accent color is used.
func NewTheme(accentColor string) Theme {
	color := defaultAccentColor
	if accentColor != "" {
		color = accentColor
	}
	c := lipgloss.Color(color)
	return Theme{
		accentStyle: lipgloss.NewStyle().
			Background(c).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),
		titleStyle: lipgloss.NewStyle().
			Foreground(c).
			Bold(true),
		cardStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1),
		borderFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c),
		inputBorder: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(c).
			Padding(0, 1),
	}
}

// AccentHeaderStyle returns the style for the header bar.
func (t Theme) AccentHeaderStyle() lipgloss.Style {
	return t.accentStyle
}

// TitleStyle returns the accent-colored bold style for titles.
func (t Theme) TitleStyle() lipgloss.Style {
	return t.titleStyle
}

// CardStyle returns the dashboard tile style.
func (t Theme) CardStyle() lipgloss.Style {
	return t.cardStyle
}

// BodyBorderStyle returns the border drawn around the page body.
func (t Theme) BodyBorderStyle() lipgloss.Style {
	return t.borderFocused
}

// InputStyle returns the border drawn around forms and the chat input.
func (t Theme) InputStyle() lipgloss.Style {
	return t.inputBorder
}
