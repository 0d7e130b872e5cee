// Package dashboard aggregates the whole state into the overview shown on
// the first page and by `organiser status`.
package dashboard

import (
	"fmt"
	"time"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/finance"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/journal"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/period"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/tasks"
)

// NotAvailable is shown when no cycle prediction exists.
const NotAvailable = "N/A"

// Stats is the dashboard summary.
type Stats struct {
	Tasks           tasks.Stats
	JournalEntries  int
	JournalThisWeek int
	Transactions    int
	Balance         float64
	Cycles          int
	NextPeriod      string // YYYY-MM-DD or NotAvailable
	Conversations   int
	Messages        int
}

// Compute summarizes st as of now.
func Compute(st store.State, now time.Time) Stats {
	s := Stats{
		Tasks:           tasks.Summarize(st.Tasks, now),
		JournalEntries:  len(st.Journal),
		JournalThisWeek: journal.ThisWeek(st.Journal, now),
		Transactions:    len(st.Finances.Transactions),
		Balance:         finance.Summarize(st.Finances.Transactions, now).Balance,
		Cycles:          len(st.Period.Cycles),
		NextPeriod:      NotAvailable,
		Conversations:   len(st.Chat.Conversations),
		Messages:        len(st.Chat.Messages),
	}
	if p, ok := period.Predict(st.Period.Cycles); ok {
		s.NextPeriod = p.NextStart.Format(period.DateLayout)
	}
	return s
}

// Card is one dashboard tile.
type Card struct {
	Title       string
	Description string
	Lines       []string
}

// Cards renders s as the five dashboard tiles in page order.
func Cards(s Stats) []Card {
	return []Card{
		{
			Title:       "Organiser",
			Description: "Manage your tasks and todos",
			Lines: []string{
				fmt.Sprintf("%d/%d completed", s.Tasks.Completed, s.Tasks.Total),
				fmt.Sprintf("%d pending", s.Tasks.Pending),
				fmt.Sprintf("%d overdue", s.Tasks.Overdue),
			},
		},
		{
			Title:       "Journal",
			Description: "Write and reflect on your thoughts",
			Lines: []string{
				fmt.Sprintf("%d total entries", s.JournalEntries),
				fmt.Sprintf("%d this week", s.JournalThisWeek),
			},
		},
		{
			Title:       "Finance",
			Description: "Track expenses and income",
			Lines: []string{
				fmt.Sprintf("%d transactions", s.Transactions),
				fmt.Sprintf("$%s balance", finance.FormatAmount(s.Balance)),
			},
		},
		{
			Title:       "Period Tracker",
			Description: "Monitor your menstrual health",
			Lines: []string{
				fmt.Sprintf("%d cycles tracked", s.Cycles),
				fmt.Sprintf("Next: %s", s.NextPeriod),
			},
		},
		{
			Title:       "Chat",
			Description: "Chat and messaging",
			Lines: []string{
				fmt.Sprintf("%d conversations", s.Conversations),
				fmt.Sprintf("%d messages", s.Messages),
			},
		},
	}
}
