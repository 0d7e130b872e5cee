// Package tui provides the bubbletea + lipgloss terminal UI for the organiser.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/config"
)

// defaultAccentColor is the default accent color (iOS blue).
const defaultAccentColor = config.DefaultAccentColor

var (
	colorWhite  = lipgloss.Color("#FAFAFA")
	colorGray   = lipgloss.Color("#888888")
	colorGreen  = lipgloss.Color("#34C759")
	colorYellow = lipgloss.Color("#FFCC00")
	colorRed    = lipgloss.Color("#FF3B30")
	colorOrange = lipgloss.Color("#FF9500")
	colorPink   = lipgloss.Color("#FF2D55")
	colorPurple = lipgloss.Color("#AF52DE")
)

// Styles used across the TUI. Accent-dependent styles live on Theme.
var (
	dimStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Strikethrough(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	incomeStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	expenseStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	periodStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorPink)

	predictedStyle = lipgloss.NewStyle().
			Foreground(colorPink).
			Underline(true)

	fertileStyle = lipgloss.NewStyle().
			Foreground(colorPurple)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorWhite)
)

// priorityIcon returns the marker shown before a task of the given priority.
func priorityIcon(priority string) string {
	switch priority {
	case "high":
		return "🔴"
	case "low":
		return "🟢"
	default:
		return "🟡"
	}
}

// priorityStyle returns the lipgloss style for a task priority.
func priorityStyle(priority string) lipgloss.Style {
	switch priority {
	case "high":
		return lipgloss.NewStyle().Foreground(colorRed)
	case "low":
		return lipgloss.NewStyle().Foreground(colorGreen)
	default:
		return lipgloss.NewStyle().Foreground(colorYellow)
	}
}

// moodIcon returns the emoji for a journal mood.
func moodIcon(mood string) string {
	switch mood {
	case "great":
		return "😄"
	case "good":
		return "🙂"
	case "sad":
		return "😢"
	case "stressed":
		return "😫"
	default:
		return "😐"
	}
}

// amountStyle colors an amount by transaction type.
func amountStyle(typ string) lipgloss.Style {
	if typ == "income" {
		return incomeStyle
	}
	return expenseStyle
}

// usageStyle colors a budget by how much of it is used.
func usageStyle(percent float64, over bool) lipgloss.Style {
	switch {
	case over:
		return expenseStyle
	case percent >= 80:
		return lipgloss.NewStyle().Foreground(colorOrange)
	default:
		return incomeStyle
	}
}
