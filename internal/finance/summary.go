package finance

import (
	"sort"
	"strings"
	"time"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
)

// CategoryTotal is the expense total of one category.
type CategoryTotal struct {
	Category
	Amount float64
}

// MonthTotal is the income and expense of one calendar month.
type MonthTotal struct {
	Month    string // "2024-01"
	Label    string // "Jan"
	Income   float64
	Expenses float64
}

// Summary aggregates a transaction list.
type Summary struct {
	Income     float64
	Expenses   float64
	Balance    float64
	ByCategory []CategoryTotal // expenses only, catalogue order, non-zero
	Months     []MonthTotal    // last six months, oldest first
}

// monthsShown is how many months Summarize reports.
const monthsShown = 6

// Summarize totals income and expenses overall, per category and for the six
// months ending with the month of now.
func Summarize(txs []store.Transaction, now time.Time) Summary {
	var sum Summary
	byCat := make(map[string]float64)
	for _, tx := range txs {
		switch tx.Type {
		case Income:
			sum.Income += tx.Amount
		case Expense:
			sum.Expenses += tx.Amount
			byCat[tx.Category] += tx.Amount
		}
	}
	sum.Balance = sum.Income - sum.Expenses

	for _, c := range Categories {
		if v := byCat[c.Value]; v > 0 {
			sum.ByCategory = append(sum.ByCategory, CategoryTotal{Category: c, Amount: v})
		}
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := monthsShown - 1; i >= 0; i-- {
		m := first.AddDate(0, -i, 0)
		mt := MonthTotal{Month: m.Format("2006-01"), Label: m.Format("Jan")}
		for _, tx := range txs {
			if !strings.HasPrefix(tx.Date, mt.Month) {
				continue
			}
			switch tx.Type {
			case Income:
				mt.Income += tx.Amount
			case Expense:
				mt.Expenses += tx.Amount
			}
		}
		sum.Months = append(sum.Months, mt)
	}
	return sum
}

// Filter returns transactions whose description contains search and whose
// type matches typ ("all" or "" for any), newest date first.
func Filter(txs []store.Transaction, search, typ string) []store.Transaction {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]store.Transaction, 0, len(txs))
	for _, tx := range txs {
		if needle != "" && !strings.Contains(strings.ToLower(tx.Description), needle) {
			continue
		}
		if typ != "" && typ != AllTypes && tx.Type != typ {
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}
