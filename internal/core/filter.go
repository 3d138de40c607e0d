package core

import "strings"

// AllCategories is the category filter value that matches every expense.
const AllCategories = "all"

// FilterExpenses returns the expenses whose description contains search
// (case-insensitive) and whose category equals category. An empty category
// or AllCategories matches everything. Order is preserved.
func FilterExpenses(items []Expense, search, category string) []Expense {
	needle := strings.ToLower(search)
	out := make([]Expense, 0, len(items))
	for _, e := range items {
		if needle != "" && !strings.Contains(strings.ToLower(e.Description), needle) {
			continue
		}
		if category != "" && category != AllCategories && e.Type != category {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ExpenseCategories lists AllCategories followed by each distinct category
// in first-seen order.
func ExpenseCategories(items []Expense) []string {
	out := []string{AllCategories}
	seen := map[string]struct{}{}
	for _, e := range items {
		if _, ok := seen[e.Type]; ok {
			continue
		}
		seen[e.Type] = struct{}{}
		out = append(out, e.Type)
	}
	return out
}
