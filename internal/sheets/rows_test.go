package sheets

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"expensedash/internal/core"
)

func TestRows_Layout(t *testing.T) {
	snap := core.DashboardSnapshot{
		TotalAllTime: decimal.RequireFromString("1234.5"),
		MonthlySeries: []core.SummaryPoint{
			{Label: "Jan 2025", Total: decimal.RequireFromString("10")},
			{Label: "Feb 2025", Total: decimal.RequireFromString("20.456")},
		},
		WeeklySeries: []core.SummaryPoint{},
		CategoryShares: []core.CategoryShare{
			{Key: "HOME_DECOR", Category: "HOME DECOR", Amount: decimal.RequireFromString("30"), PercentOfTotal: 33.333333},
		},
		TopCategory:  core.CategoryShare{Key: "HOME_DECOR", Category: "HOME DECOR", Amount: decimal.RequireFromString("30")},
		MonthlyLimit: decimal.NewNullDecimal(decimal.RequireFromString("500")),
	}
	at := time.Date(2025, 2, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))

	rows := Rows(snap, at)

	checks := []struct {
		row, col int
		want     string
	}{
		{0, 1, "2025-02-01T11:00:00Z"},
		{1, 1, "1234.50"},
		{4, 1, "500.00"},
		{5, 1, "HOME DECOR"},
		{7, 0, "Month"},
		{8, 0, "Jan 2025"},
		{9, 1, "20.46"},
		{11, 0, "Week"},
		{13, 0, "Category"},
		{14, 2, "33.33"},
	}
	if len(rows) != 15 {
		t.Fatalf("expected 15 rows, got %d: %v", len(rows), rows)
	}
	for _, c := range checks {
		if got := rows[c.row][c.col]; got != c.want {
			t.Errorf("rows[%d][%d] = %v, want %q", c.row, c.col, got, c.want)
		}
	}
}

func TestRows_NoLimitLeavesCellEmpty(t *testing.T) {
	rows := Rows(core.DashboardSnapshot{TopCategory: core.NoneShare()}, time.Now())
	if rows[4][1] != "" {
		t.Errorf("limit cell = %v, want empty", rows[4][1])
	}
	if rows[5][1] != core.NoCategory {
		t.Errorf("top category = %v, want %q", rows[5][1], core.NoCategory)
	}
}
