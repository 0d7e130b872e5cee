package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/chat"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/finance"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/journal"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/period"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/tasks"
	"github.com/LISSConsulting/LISSTech.Organiser/internal/tui/components"
)

// formKind selects what an add form creates.
type formKind string

const (
	formTask         formKind = "task"
	formJournal      formKind = "journal"
	formTransaction  formKind = "transaction"
	formBudget       formKind = "budget"
	formCycle        formKind = "cycle"
	formSymptom      formKind = "symptom"
	formConversation formKind = "conversation"
)

// formID encodes the kind and, when editing, the record id.
func formID(kind formKind, recordID string) string {
	if recordID == "" {
		return string(kind)
	}
	return string(kind) + ":" + recordID
}

func parseFormID(id string) (formKind, string) {
	kind, rec, _ := strings.Cut(id, ":")
	return formKind(kind), rec
}

// formFor returns the title and fields of a new-record form.
func formFor(kind formKind, now time.Time) (string, []components.Field) {
	today := now.Format(tasks.DateLayout)
	switch kind {
	case formTask:
		return "New task", []components.Field{
			{Key: "title", Label: "Title"},
			{Key: "description", Label: "Description"},
			{Key: "priority", Label: "Priority", Placeholder: "low, medium or high", Value: "medium"},
			{Key: "dueDate", Label: "Due date", Placeholder: "YYYY-MM-DD"},
		}
	case formJournal:
		return "New journal entry", []components.Field{
			{Key: "title", Label: "Title"},
			{Key: "content", Label: "Content"},
			{Key: "mood", Label: "Mood", Placeholder: strings.Join(journal.Moods, ", "), Value: "neutral"},
			{Key: "tags", Label: "Tags", Placeholder: "comma separated"},
			{Key: "date", Label: "Date", Value: today},
		}
	case formTransaction:
		return "New transaction", []components.Field{
			{Key: "description", Label: "Description"},
			{Key: "amount", Label: "Amount", Placeholder: "0.00"},
			{Key: "type", Label: "Type", Placeholder: "income or expense", Value: finance.Expense},
			{Key: "category", Label: "Category", Placeholder: categoryHint(), Value: "other"},
			{Key: "date", Label: "Date", Value: today},
		}
	case formBudget:
		return "New budget", []components.Field{
			{Key: "category", Label: "Category", Placeholder: categoryHint(), Value: "food"},
			{Key: "amount", Label: "Amount", Placeholder: "0.00"},
			{Key: "period", Label: "Period", Placeholder: "weekly, monthly or yearly", Value: finance.Monthly},
		}
	case formCycle:
		return "New cycle", []components.Field{
			{Key: "startDate", Label: "Start date", Value: today},
			{Key: "endDate", Label: "End date", Placeholder: "YYYY-MM-DD (optional)"},
			{Key: "flow", Label: "Flow", Placeholder: strings.Join(period.Flows, ", "), Value: "medium"},
			{Key: "symptoms", Label: "Symptoms", Placeholder: symptomHint()},
		}
	case formSymptom:
		return "Log symptom", []components.Field{
			{Key: "date", Label: "Date", Value: today},
			{Key: "type", Label: "Symptom", Placeholder: symptomHint(), Value: "cramps"},
			{Key: "severity", Label: "Severity", Placeholder: strings.Join(period.Severities, ", "), Value: "mild"},
			{Key: "notes", Label: "Notes"},
		}
	case formConversation:
		return "New conversation", []components.Field{
			{Key: "name", Label: "Name"},
		}
	}
	return "", nil
}

// editFormFor returns a form pre-filled from an existing record. ok is false
// when the kind cannot be edited or the record is gone.
func editFormFor(kind formKind, id string, st store.State) (string, []components.Field, bool) {
	switch kind {
	case formTask:
		for _, t := range st.Tasks {
			if t.ID == id {
				_, fields := formFor(formTask, time.Time{})
				fill(fields, map[string]string{
					"title": t.Title, "description": t.Description,
					"priority": t.Priority, "dueDate": t.DueDate,
				})
				return "Edit task", fields, true
			}
		}
	case formJournal:
		for _, e := range st.Journal {
			if e.ID == id {
				_, fields := formFor(formJournal, time.Time{})
				fill(fields, map[string]string{
					"title": e.Title, "content": e.Content,
					"mood": e.Mood, "tags": e.Tags, "date": e.Date,
				})
				return "Edit journal entry", fields, true
			}
		}
	}
	return "", nil, false
}

func fill(fields []components.Field, values map[string]string) {
	for i := range fields {
		fields[i].Value = values[fields[i].Key]
	}
}

func categoryHint() string {
	vals := make([]string, len(finance.Categories))
	for i, c := range finance.Categories {
		vals[i] = c.Value
	}
	return strings.Join(vals, ", ")
}

func symptomHint() string {
	vals := make([]string, len(period.SymptomTypes))
	for i, s := range period.SymptomTypes {
		vals[i] = s.Value
	}
	return strings.Join(vals, ", ")
}

// errBadAmount is shown when an amount field is not a number.
var errBadAmount = errors.New("amount must be a number")

func parseAmount(s string) (float64, error) {
	if s == "" {
		return 0, finance.ErrAmountNotPositive
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errBadAmount
	}
	return v, nil
}

// splitList splits a comma separated field, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// submitForm returns a command that validates and stores the form values.
func submitForm(s *store.Store, svc *chat.Service, id string, v map[string]string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		status, err := applyForm(s, svc, id, v, now)
		return actionDoneMsg{form: id, status: status, err: err}
	}
}

func applyForm(s *store.Store, svc *chat.Service, id string, v map[string]string, now time.Time) (string, error) {
	kind, recordID := parseFormID(id)
	switch kind {
	case formTask:
		d := tasks.Draft{Title: v["title"], Description: v["description"], Priority: v["priority"], DueDate: v["dueDate"]}
		if recordID != "" {
			t, found, err := tasks.Edit(s, recordID, d)
			if !found && err == nil {
				return "", fmt.Errorf("task no longer exists")
			}
			return fmt.Sprintf("updated %q", t.Title), err
		}
		t, err := tasks.Add(s, d, now)
		return fmt.Sprintf("added task %q", t.Title), err

	case formJournal:
		d := journal.Draft{Title: v["title"], Content: v["content"], Mood: v["mood"], Tags: v["tags"], Date: v["date"]}
		if recordID != "" {
			e, found, err := journal.Edit(s, recordID, d, now)
			if !found && err == nil {
				return "", fmt.Errorf("entry no longer exists")
			}
			return fmt.Sprintf("updated %q", e.Title), err
		}
		e, err := journal.Add(s, d, now)
		return fmt.Sprintf("added entry %q", e.Title), err

	case formTransaction:
		amount, err := parseAmount(v["amount"])
		if err != nil {
			return "", err
		}
		tx, err := finance.AddTransaction(s, finance.TransactionDraft{
			Description: v["description"], Amount: amount, Type: v["type"],
			Category: v["category"], Date: v["date"],
		}, now)
		return fmt.Sprintf("added %s of %s", tx.Type, finance.FormatAmount(tx.Amount)), err

	case formBudget:
		amount, err := parseAmount(v["amount"])
		if err != nil {
			return "", err
		}
		b, err := finance.AddBudget(s, finance.BudgetDraft{Category: v["category"], Amount: amount, Period: v["period"]}, now)
		return fmt.Sprintf("added %s budget for %s", b.Period, b.Category), err

	case formCycle:
		c, err := period.AddCycle(s, period.CycleDraft{
			StartDate: v["startDate"], EndDate: v["endDate"], Flow: v["flow"], Symptoms: splitList(v["symptoms"]),
		}, now)
		return fmt.Sprintf("added cycle starting %s", c.StartDate), err

	case formSymptom:
		sym, err := period.AddSymptom(s, period.SymptomDraft{
			Date: v["date"], Type: v["type"], Severity: v["severity"], Notes: v["notes"],
		}, now)
		return fmt.Sprintf("logged %s on %s", sym.Type, sym.Date), err

	case formConversation:
		if svc == nil {
			return "", errors.New("chat is not available")
		}
		c, err := svc.CreateConversation(v["name"])
		return fmt.Sprintf("created conversation %q", c.Name), err
	}
	return "", fmt.Errorf("unknown form %q", id)
}
