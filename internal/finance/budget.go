package finance

import (
	"time"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
)

// Usage is how much of a budget has been spent in its current period.
type Usage struct {
	Budget    store.Budget
	From, To  time.Time // inclusive start, exclusive end
	Spent     float64
	Remaining float64
	Percent   float64
	Over      bool
}

// PeriodBounds returns the current budget window containing now: the ISO week
// starting Monday, the calendar month, or the calendar year.
func PeriodBounds(period string, now time.Time) (from, to time.Time) {
	y, m, d := now.Date()
	loc := now.Location()
	switch period {
	case Weekly:
		offset := (int(now.Weekday()) + 6) % 7
		from = time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 0, 7)
	case Yearly:
		from = time.Date(y, 1, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(1, 0, 0)
	default:
		from = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 1, 0)
	}
}

// BudgetUsage totals expenses in the budget's category over its current
// period.
func BudgetUsage(b store.Budget, txs []store.Transaction, now time.Time) Usage {
	from, to := PeriodBounds(b.Period, now)
	u := Usage{Budget: b, From: from, To: to}
	for _, tx := range txs {
		if tx.Type != Expense || tx.Category != b.Category {
			continue
		}
		d, err := time.ParseInLocation(DateLayout, tx.Date, now.Location())
		if err != nil || d.Before(from) || !d.Before(to) {
			continue
		}
		u.Spent += tx.Amount
	}
	u.Remaining = b.Amount - u.Spent
	if b.Amount > 0 {
		u.Percent = u.Spent / b.Amount * 100
	}
	u.Over = u.Spent > b.Amount
	return u
}
