package finance

// Category is a transaction category with its display label and colour.
type Category struct {
	Value string
	Label string
	Color string
}

// Categories in display order.
var Categories = []Category{
	{"food", "Food & Dining", "#FF9500"},
	{"transport", "Transportation", "#007AFF"},
	{"entertainment", "Entertainment", "#AF52DE"},
	{"shopping", "Shopping", "#FF2D92"},
	{"bills", "Bills & Utilities", "#FF3B30"},
	{"health", "Healthcare", "#34C759"},
	{"education", "Education", "#5856D6"},
	{"salary", "Salary", "#34C759"},
	{"freelance", "Freelance", "#5AC8FA"},
	{"investment", "Investment", "#FFCC00"},
	{"other", "Other", "#8E8E93"},
}

// LookupCategory returns the catalogue entry for value. Unknown values map to
// "other".
func LookupCategory(value string) (Category, bool) {
	for _, c := range Categories {
		if c.Value == value {
			return c, true
		}
	}
	return Categories[len(Categories)-1], false
}
