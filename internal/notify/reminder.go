package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/period"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/tasks"
)

// periodLeadDays is how far ahead a predicted period is mentioned.
const periodLeadDays = 3

// Reminder lists pending tasks due today or overdue, and a predicted period
// starting within the next three days. It returns "" when there is nothing
// to say.
func Reminder(st store.State, now time.Time) string {
	var lines []string
	for _, t := range st.Tasks {
		switch {
		case tasks.Overdue(t, now):
			lines = append(lines, fmt.Sprintf("- overdue since %s: %s", t.DueDate, t.Title))
		case tasks.DueOn(t, now):
			lines = append(lines, fmt.Sprintf("- due today: %s", t.Title))
		}
	}

	if p, ok := period.Predict(st.Period.Cycles); ok {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		days := int(p.NextStart.Sub(today).Hours() / 24)
		if days >= 0 && days <= periodLeadDays {
			lines = append(lines, fmt.Sprintf("- period predicted to start %s (in %d days)", p.NextStart.Format(period.DateLayout), days))
		}
	}

	if len(lines) == 0 {
		return ""
	}
	return "Reminders for " + now.Format("Mon 2 Jan") + "\n" + strings.Join(lines, "\n")
}
