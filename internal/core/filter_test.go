package core

import (
	"reflect"
	"testing"
)

func TestFilterExpenses(t *testing.T) {
	items := []Expense{
		{ID: 1, Description: "Groceries at market", Type: "GROCERY"},
		{ID: 2, Description: "Train ticket", Type: "TRAVEL"},
		{ID: 3, Description: "Market lunch", Type: "FOOD"},
		{ID: 4, Description: "Flight", Type: "TRAVEL"},
	}

	ids := func(es []Expense) []int64 {
		out := []int64{}
		for _, e := range es {
			out = append(out, e.ID)
		}
		return out
	}

	tests := []struct {
		name     string
		search   string
		category string
		want     []int64
	}{
		{"no filter", "", "", []int64{1, 2, 3, 4}},
		{"all category", "", "all", []int64{1, 2, 3, 4}},
		{"search case-insensitive", "MARKET", "all", []int64{1, 3}},
		{"category only", "", "TRAVEL", []int64{2, 4}},
		{"search and category", "market", "FOOD", []int64{3}},
		{"no match", "bike", "", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterExpenses(items, tt.search, tt.category))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterExpenses(%q, %q) = %v, want %v", tt.search, tt.category, got, tt.want)
			}
		})
	}
}

func TestExpenseCategories(t *testing.T) {
	items := []Expense{{Type: "TRAVEL"}, {Type: "FOOD"}, {Type: "TRAVEL"}, {Type: "RENT"}}
	got := ExpenseCategories(items)
	want := []string{"all", "TRAVEL", "FOOD", "RENT"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpenseCategories() = %v, want %v", got, want)
	}

	if got := ExpenseCategories(nil); !reflect.DeepEqual(got, []string{"all"}) {
		t.Errorf("ExpenseCategories(nil) = %v", got)
	}
}
