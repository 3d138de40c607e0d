package sheets

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"expensedash/internal/core"
)

// Rows lays a snapshot out as a sheet: a block of headline figures followed
// by the monthly, weekly and category tables, separated by blank rows.
// Amounts are fixed two-decimal strings so spreadsheets parse them as numbers.
func Rows(snap core.DashboardSnapshot, at time.Time) [][]interface{} {
	limit := ""
	if snap.MonthlyLimit.Valid {
		limit = money(snap.MonthlyLimit.Decimal)
	}

	rows := [][]interface{}{
		{"Exported at", at.UTC().Format(time.RFC3339)},
		{"Total", money(snap.TotalAllTime)},
		{"Latest monthly", money(snap.LatestMonthly)},
		{"Latest weekly", money(snap.LatestWeekly)},
		{"Monthly limit", limit},
		{"Top category", snap.TopCategory.Category, money(snap.TopCategory.Amount)},
		{},
		{"Month", "Total"},
	}
	for _, p := range snap.MonthlySeries {
		rows = append(rows, []interface{}{p.Label, money(p.Total)})
	}

	rows = append(rows, []interface{}{}, []interface{}{"Week", "Total"})
	for _, p := range snap.WeeklySeries {
		rows = append(rows, []interface{}{p.Label, money(p.Total)})
	}

	rows = append(rows, []interface{}{}, []interface{}{"Category", "Amount", "Percent"})
	for _, s := range snap.CategoryShares {
		rows = append(rows, []interface{}{
			s.Category,
			money(s.Amount),
			strconv.FormatFloat(s.PercentOfTotal, 'f', 2, 64),
		})
	}
	return rows
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
