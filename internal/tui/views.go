package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/chat"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/dashboard"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/finance"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/journal"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/period"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/tasks"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/tui/panels"
)

// rowsFor returns the list rows of a page.
func rowsFor(p Page, st store.State, filter string, now time.Time) []panels.Row {
	switch p {
	case PageTasks:
		return taskRows(st.Tasks, filter, now)
	case PageJournal:
		return journalRows(st.Journal, filter)
	case PageFinance:
		return transactionRows(st.Finances.Transactions, filter)
	case PagePeriod:
		return cycleRows(st.Period.Cycles)
	case PageChat:
		return conversationRows(st.Chat.Conversations, filter)
	}
	return nil
}

func taskRows(ts []store.Task, filter string, now time.Time) []panels.Row {
	var rows []panels.Row
	for _, t := range tasks.Filter(ts, tasks.Query{Search: filter}) {
		detail := t.Priority
		if t.DueDate != "" {
			detail += "  due " + t.DueDate
		}
		rows = append(rows, panels.Row{
			ID:     t.ID,
			Title:  priorityIcon(t.Priority) + " " + t.Title,
			Detail: detail,
			Done:   t.Completed,
			Alert:  tasks.Overdue(t, now),
		})
	}
	return rows
}

func journalRows(entries []store.JournalEntry, filter string) []panels.Row {
	var rows []panels.Row
	for _, e := range journal.Filter(entries, filter, journal.AllMoods) {
		rows = append(rows, panels.Row{
			ID:     e.ID,
			Title:  moodIcon(e.Mood) + " " + e.Title,
			Detail: e.Date,
		})
	}
	return rows
}

func transactionRows(txs []store.Transaction, filter string) []panels.Row {
	var rows []panels.Row
	for _, tx := range finance.Filter(txs, filter, finance.AllTypes) {
		sign := "-"
		if tx.Type == finance.Income {
			sign = "+"
		}
		cat, _ := finance.LookupCategory(tx.Category)
		rows = append(rows, panels.Row{
			ID:     tx.ID,
			Title:  fmt.Sprintf("%s  %s", amountStyle(tx.Type).Render(sign+"$"+finance.FormatAmount(tx.Amount)), tx.Description),
			Detail: cat.Label + "  " + tx.Date,
		})
	}
	return rows
}

// cycleRows lists cycles newest first.
func cycleRows(cycles []store.Cycle) []panels.Row {
	sorted := make([]store.Cycle, len(cycles))
	copy(sorted, cycles)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartDate > sorted[j].StartDate })

	var rows []panels.Row
	for _, c := range sorted {
		end := c.EndDate
		if end == "" {
			end = "ongoing"
		}
		detail := c.Flow
		if len(c.Symptoms) > 0 {
			detail += "  " + strings.Join(c.Symptoms, ", ")
		}
		rows = append(rows, panels.Row{
			ID:     c.ID,
			Title:  c.StartDate + " → " + end,
			Detail: detail,
		})
	}
	return rows
}

func conversationRows(convs []store.Conversation, filter string) []panels.Row {
	var rows []panels.Row
	for _, c := range chat.FilterConversations(convs, filter) {
		rows = append(rows, panels.Row{
			ID:     c.ID,
			Title:  c.Name,
			Detail: truncate(c.LastMessage, 30),
		})
	}
	return rows
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n < 2 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// dashboardView renders the dashboard tiles three per row.
func dashboardView(st store.State, now time.Time, width int, th Theme) string {
	cards := dashboard.Cards(dashboard.Compute(st, now))
	cardW := width/3 - 4
	if cardW < 16 {
		cardW = 16
	}

	rendered := make([]string, len(cards))
	for i, c := range cards {
		body := []string{th.TitleStyle().Render(c.Title), dimStyle.Render(c.Description), ""}
		body = append(body, c.Lines...)
		rendered[i] = th.CardStyle().Width(cardW).Render(strings.Join(body, "\n"))
	}

	var rows []string
	for i := 0; i < len(rendered); i += 3 {
		end := min(i+3, len(rendered))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// taskDetail renders the task stats and the selected task.
func taskDetail(st store.State, selID string, now time.Time, width int, th Theme) string {
	s := tasks.Summarize(st.Tasks, now)
	lines := []string{
		th.TitleStyle().Render("Tasks"),
		fmt.Sprintf("%d total  %d done  %d pending", s.Total, s.Completed, s.Pending),
	}
	if s.Overdue > 0 {
		lines = append(lines, errorStyle.Render(fmt.Sprintf("%d overdue", s.Overdue)))
	}
	for _, t := range st.Tasks {
		if t.ID != selID {
			continue
		}
		status := "pending"
		if t.Completed {
			status = "completed"
		}
		lines = append(lines, "",
			th.TitleStyle().Render(t.Title),
			labelStyle.Render("Priority ")+priorityStyle(t.Priority).Render(t.Priority),
			labelStyle.Render("Status   ")+status,
		)
		if t.DueDate != "" {
			due := t.DueDate
			if tasks.Overdue(t, now) {
				due = errorStyle.Render(due + " (overdue)")
			}
			lines = append(lines, labelStyle.Render("Due      ")+due)
		}
		if t.Description != "" {
			lines = append(lines, "", wrap(t.Description, width))
		}
	}
	return strings.Join(lines, "\n")
}

// journalDetail renders the selected entry.
func journalDetail(st store.State, selID string, now time.Time, width int, th Theme) string {
	lines := []string{
		th.TitleStyle().Render("Journal"),
		fmt.Sprintf("%d entries  %d this week", len(st.Journal), journal.ThisWeek(st.Journal, now)),
	}
	for _, e := range st.Journal {
		if e.ID != selID {
			continue
		}
		lines = append(lines, "",
			th.TitleStyle().Render(e.Title),
			dimStyle.Render(e.Date+"  "+moodIcon(e.Mood)+" "+e.Mood),
		)
		if tags := journal.Tags(e); len(tags) > 0 {
			lines = append(lines, dimStyle.Render("#"+strings.Join(tags, " #")))
		}
		lines = append(lines, "", wrap(e.Content, width))
	}
	return strings.Join(lines, "\n")
}

// financeDetail renders totals, budgets and the six month history.
func financeDetail(st store.State, now time.Time, th Theme) string {
	sum := finance.Summarize(st.Finances.Transactions, now)
	lines := []string{
		th.TitleStyle().Render("Balance ") + amountStyle(balanceType(sum.Balance)).Render("$"+finance.FormatAmount(sum.Balance)),
		incomeStyle.Render("income   $"+finance.FormatAmount(sum.Income)) + "  " +
			expenseStyle.Render("expenses $"+finance.FormatAmount(sum.Expenses)),
	}

	if len(st.Finances.Budgets) > 0 {
		lines = append(lines, "", th.TitleStyle().Render("Budgets"))
		for _, b := range st.Finances.Budgets {
			u := finance.BudgetUsage(b, st.Finances.Transactions, now)
			cat, _ := finance.LookupCategory(b.Category)
			lines = append(lines, usageStyle(u.Percent, u.Over).Render(fmt.Sprintf(
				"%-13s %s/%s %3.0f%%", cat.Label, finance.FormatAmount(u.Spent), finance.FormatAmount(b.Amount), u.Percent)))
		}
	}

	if len(sum.ByCategory) > 0 {
		lines = append(lines, "", th.TitleStyle().Render("Spending by category"))
		for _, c := range sum.ByCategory {
			lines = append(lines, fmt.Sprintf("%-13s %10s", c.Label, finance.FormatAmount(c.Amount)))
		}
	}

	lines = append(lines, "", th.TitleStyle().Render("Last six months"))
	for _, m := range sum.Months {
		lines = append(lines, fmt.Sprintf("%-4s %s %s", m.Label,
			incomeStyle.Render(fmt.Sprintf("+%9s", finance.FormatAmount(m.Income))),
			expenseStyle.Render(fmt.Sprintf("-%9s", finance.FormatAmount(m.Expenses)))))
	}
	return strings.Join(lines, "\n")
}

func balanceType(v float64) string {
	if v < 0 {
		return finance.Expense
	}
	return finance.Income
}

// periodDetail renders the month calendar, prediction and symptom counts.
func periodDetail(st store.State, now time.Time, th Theme) string {
	lines := []string{th.TitleStyle().Render(now.Format("January 2006")), calendarView(st, now), ""}
	lines = append(lines,
		periodStyle.Render(" 1 ")+" period  "+predictedStyle.Render("1")+" predicted  "+fertileStyle.Render("1")+" fertile  • symptom", "")

	if p, ok := period.Predict(st.Period.Cycles); ok {
		lines = append(lines,
			labelStyle.Render("Next period   ")+p.NextStart.Format(period.DateLayout),
			labelStyle.Render("Fertile       ")+p.Fertile.Format(period.DateLayout),
			labelStyle.Render("Cycle length  ")+fmt.Sprintf("%d days", p.AverageLength),
		)
	} else {
		lines = append(lines, dimStyle.Render("Track two cycles to see predictions"))
	}

	if len(st.Period.Symptoms) > 0 {
		lines = append(lines, "", th.TitleStyle().Render("Symptoms"))
		for _, c := range period.SymptomCounts(st.Period.Symptoms) {
			if c.Count > 0 {
				lines = append(lines, fmt.Sprintf("%-13s %d", c.Label, c.Count))
			}
		}
	}
	return strings.Join(lines, "\n")
}

// calendarView renders the month containing now as a Monday-first grid.
func calendarView(st store.State, now time.Time) string {
	days := period.Month(now.Year(), now.Month(), st.Period.Cycles, st.Period.Symptoms)
	var b strings.Builder
	b.WriteString(dimStyle.Render("Mo  Tu  We  Th  Fr  Sa  Su"))
	b.WriteString("\n")

	offset := (int(days[0].Date.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("    ", offset))
	col := offset
	for _, d := range days {
		cell := fmt.Sprintf("%2d", d.Date.Day())
		switch {
		case d.InPeriod:
			cell = periodStyle.Render(cell)
		case d.PredictedPeriod:
			cell = predictedStyle.Render(cell)
		case d.Fertile:
			cell = fertileStyle.Render(cell)
		case d.Date.Day() == now.Day():
			cell = infoStyle.Bold(true).Render(cell)
		}
		marker := "  "
		if d.HasSymptom {
			marker = "• "
		}
		b.WriteString(cell + marker)
		col++
		if col == 7 {
			col = 0
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n ")
}

// messageLines renders a conversation transcript.
func messageLines(msgs []store.Message, width int) []string {
	var lines []string
	for _, m := range msgs {
		ts := dimStyle.Render(m.Timestamp.Local().Format("15:04"))
		who := "you"
		style := infoStyle
		if m.Sender == store.SenderBot {
			who = "bot"
			style = dimStyle.Italic(true)
		}
		text := wrap(m.Content, max(width-12, 10))
		for i, l := range strings.Split(text, "\n") {
			if i == 0 {
				lines = append(lines, fmt.Sprintf("%s %-4s %s", ts, who+":", style.Render(l)))
			} else {
				lines = append(lines, strings.Repeat(" ", 11)+style.Render(l))
			}
		}
	}
	return lines
}

// wrap soft-wraps s to width.
func wrap(s string, width int) string {
	if width < 1 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
