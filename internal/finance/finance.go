// Package finance implements the income and expense tracker: transactions,
// budgets and their aggregations.
package finance

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
)

// DateLayout is the layout of transaction dates.
const DateLayout = "2006-01-02"

// Transaction types.
const (
	Income   = "income"
	Expense  = "expense"
	AllTypes = "all"
)

// Budget periods.
const (
	Weekly  = "weekly"
	Monthly = "monthly"
	Yearly  = "yearly"
)

var (
	ErrDescriptionRequired = errors.New("finance: description is required")
	ErrAmountNotPositive   = errors.New("finance: amount must be positive")
)

// TransactionDraft is the user-editable part of a transaction.
type TransactionDraft struct {
	Description string
	Amount      float64
	Type        string
	Category    string
	Date        string
}

// Validate normalizes d in place: type defaults to expense, category to
// other and date to today.
func (d *TransactionDraft) Validate(now time.Time) error {
	d.Description = strings.TrimSpace(d.Description)
	if d.Description == "" {
		return ErrDescriptionRequired
	}
	if d.Amount <= 0 {
		return ErrAmountNotPositive
	}
	switch d.Type {
	case "":
		d.Type = Expense
	case Income, Expense:
	default:
		return fmt.Errorf("finance: unknown type %q", d.Type)
	}
	if d.Category == "" {
		d.Category = "other"
	}
	if _, ok := LookupCategory(d.Category); !ok {
		return fmt.Errorf("finance: unknown category %q", d.Category)
	}
	if d.Date == "" {
		d.Date = now.Format(DateLayout)
	}
	if _, err := time.Parse(DateLayout, d.Date); err != nil {
		return fmt.Errorf("finance: date %q: want YYYY-MM-DD", d.Date)
	}
	return nil
}

// NewTransaction builds a transaction from d.
func NewTransaction(d TransactionDraft, now time.Time) (store.Transaction, error) {
	if err := d.Validate(now); err != nil {
		return store.Transaction{}, err
	}
	return store.Transaction{
		Description: d.Description,
		Amount:      d.Amount,
		Type:        d.Type,
		Category:    d.Category,
		Date:        d.Date,
		CreatedAt:   now,
	}, nil
}

// AddTransaction validates d and stores the transaction.
func AddTransaction(s *store.Store, d TransactionDraft, now time.Time) (store.Transaction, error) {
	tx, err := NewTransaction(d, now)
	if err != nil {
		return store.Transaction{}, err
	}
	return store.AddItem(s, store.Transactions, tx)
}

// BudgetDraft is the user-editable part of a budget.
type BudgetDraft struct {
	Category string
	Amount   float64
	Period   string
}

// NewBudget validates d and builds a budget. Period defaults to monthly.
func NewBudget(d BudgetDraft, now time.Time) (store.Budget, error) {
	if d.Category == "" {
		d.Category = "other"
	}
	if _, ok := LookupCategory(d.Category); !ok {
		return store.Budget{}, fmt.Errorf("finance: unknown category %q", d.Category)
	}
	if d.Amount <= 0 {
		return store.Budget{}, ErrAmountNotPositive
	}
	switch d.Period {
	case "":
		d.Period = Monthly
	case Weekly, Monthly, Yearly:
	default:
		return store.Budget{}, fmt.Errorf("finance: unknown budget period %q", d.Period)
	}
	return store.Budget{Category: d.Category, Amount: d.Amount, Period: d.Period, CreatedAt: now}, nil
}

// AddBudget validates d and stores the budget.
func AddBudget(s *store.Store, d BudgetDraft, now time.Time) (store.Budget, error) {
	b, err := NewBudget(d, now)
	if err != nil {
		return store.Budget{}, err
	}
	return store.AddItem(s, store.Budgets, b)
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
