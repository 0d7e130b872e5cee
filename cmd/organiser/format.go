package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/dashboard"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/finance"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/period"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/tasks"
)

// formatStatus renders the dashboard summary printed by `organiser status`.
func formatStatus(s dashboard.Stats) string {
	var b strings.Builder
	b.WriteString("Organiser Status\n")
	b.WriteString("────────────────\n")
	fmt.Fprintf(&b, "  %-16s %d of %d done, %d pending", "Tasks:", s.Tasks.Completed, s.Tasks.Total, s.Tasks.Pending)
	if s.Tasks.Overdue > 0 {
		fmt.Fprintf(&b, ", %d overdue", s.Tasks.Overdue)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %-16s %d entries, %d this week\n", "Journal:", s.JournalEntries, s.JournalThisWeek)
	fmt.Fprintf(&b, "  %-16s %d transactions, balance $%s\n", "Finance:", s.Transactions, finance.FormatAmount(s.Balance))
	fmt.Fprintf(&b, "  %-16s %d cycles, next period %s\n", "Period:", s.Cycles, s.NextPeriod)
	fmt.Fprintf(&b, "  %-16s %d conversations, %d messages\n", "Chat:", s.Conversations, s.Messages)
	return b.String()
}

func formatTasks(list []store.Task, now time.Time) string {
	if len(list) == 0 {
		return "No tasks.\n"
	}
	var b strings.Builder
	for _, t := range list {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		fmt.Fprintf(&b, "%s %-6s %-38s %s", mark, t.Priority, t.ID, t.Title)
		if t.DueDate != "" {
			fmt.Fprintf(&b, "  (due %s)", t.DueDate)
		}
		if tasks.Overdue(t, now) {
			b.WriteString(" OVERDUE")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatJournal(entries []store.JournalEntry) string {
	if len(entries) == 0 {
		return "No journal entries.\n"
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %-8s %-38s %s\n", e.Date, e.Mood, e.ID, e.Title)
		if e.Tags != "" {
			fmt.Fprintf(&b, "            tags: %s\n", e.Tags)
		}
	}
	return b.String()
}

func formatTransactions(txs []store.Transaction) string {
	if len(txs) == 0 {
		return "No transactions.\n"
	}
	var b strings.Builder
	for _, tx := range txs {
		sign := "-"
		if tx.Type == finance.Income {
			sign = "+"
		}
		cat, _ := finance.LookupCategory(tx.Category)
		fmt.Fprintf(&b, "%s  %s%10s  %-16s %-38s %s\n",
			tx.Date, sign, finance.FormatAmount(tx.Amount), cat.Label, tx.ID, tx.Description)
	}
	return b.String()
}

func formatFinanceSummary(fin store.Finances, now time.Time) string {
	sum := finance.Summarize(fin.Transactions, now)
	var b strings.Builder
	fmt.Fprintf(&b, "Income    %12s\n", finance.FormatAmount(sum.Income))
	fmt.Fprintf(&b, "Expenses  %12s\n", finance.FormatAmount(sum.Expenses))
	fmt.Fprintf(&b, "Balance   %12s\n", finance.FormatAmount(sum.Balance))

	if len(fin.Budgets) > 0 {
		b.WriteString("\nBudgets\n")
		for _, bud := range fin.Budgets {
			u := finance.BudgetUsage(bud, fin.Transactions, now)
			cat, _ := finance.LookupCategory(bud.Category)
			over := ""
			if u.Over {
				over = "  OVER"
			}
			fmt.Fprintf(&b, "  %-16s %-8s %10s / %-10s %3.0f%%%s\n",
				cat.Label, bud.Period, finance.FormatAmount(u.Spent), finance.FormatAmount(bud.Amount), u.Percent, over)
		}
	}

	if len(sum.ByCategory) > 0 {
		b.WriteString("\nSpending by category\n")
		for _, c := range sum.ByCategory {
			fmt.Fprintf(&b, "  %-16s %10s\n", c.Label, finance.FormatAmount(c.Amount))
		}
	}

	b.WriteString("\nLast six months\n")
	for _, m := range sum.Months {
		fmt.Fprintf(&b, "  %s  +%10s  -%10s\n", m.Month, finance.FormatAmount(m.Income), finance.FormatAmount(m.Expenses))
	}
	return b.String()
}

func formatPrediction(p period.Prediction, ok bool) string {
	if !ok {
		return "Track at least two cycles to see predictions.\n"
	}
	return fmt.Sprintf("Next period:   %s\nFertile date:  %s\nCycle length:  %d days\n",
		p.NextStart.Format(period.DateLayout), p.Fertile.Format(period.DateLayout), p.AverageLength)
}

func formatConversations(convs []store.Conversation) string {
	if len(convs) == 0 {
		return "No conversations.\n"
	}
	var b strings.Builder
	for _, c := range convs {
		fmt.Fprintf(&b, "%-38s %s", c.ID, c.Name)
		if c.LastMessage != "" {
			fmt.Fprintf(&b, "  (%s: %s)", c.LastMessageTime.Local().Format("2 Jan 15:04"), c.LastMessage)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatMessages(msgs []store.Message) string {
	var b strings.Builder
	for _, m := range msgs {
		who := "you"
		if m.Sender == store.SenderBot {
			who = "bot"
		}
		fmt.Fprintf(&b, "%s %-4s %s\n", m.Timestamp.Local().Format("15:04"), who+":", m.Content)
	}
	return b.String()
}

// exportState encodes st as json (indented) or yaml.
func exportState(st store.State, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "json":
		data, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		data, err := yaml.Marshal(st)
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("export: unknown format %q (want json or yaml)", format)
}
