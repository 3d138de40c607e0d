package dashboard

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"expensedash/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Responses holds the raw bodies of one fetch cycle.
type Responses struct {
	Progress       json.RawMessage
	MonthlySummary json.RawMessage
	WeeklySummary  json.RawMessage
	CategoryTotals json.RawMessage
	// MonthlyLimit is invalid when the limit was not fetched.
	MonthlyLimit decimal.NullDecimal
}

// Build derives a snapshot from raw backend bodies. It never fails: shapes it
// cannot read contribute nothing.
func Build(r Responses) core.DashboardSnapshot {
	monthly := MonthlySeries(DecodeEntries(r.MonthlySummary))
	weekly := WeeklySeries(DecodeEntries(r.WeeklySummary))
	shares := CategoryShares(DecodeEntries(r.CategoryTotals))

	return core.DashboardSnapshot{
		TotalAllTime:   ProgressTotal(r.Progress),
		MonthlySeries:  monthly,
		WeeklySeries:   weekly,
		CategoryShares: shares,
		TopCategory:    TopCategory(shares),
		LatestMonthly:  latest(monthly),
		LatestWeekly:   latest(weekly),
		MonthlyLimit:   r.MonthlyLimit,
	}
}

// MonthlySeries sorts month entries chronologically.
func MonthlySeries(entries []Entry) []core.SummaryPoint {
	return series(entries, SortMonthLabels)
}

// WeeklySeries sorts week entries by week number.
func WeeklySeries(entries []Entry) []core.SummaryPoint {
	return series(entries, SortWeekLabels)
}

func series(entries []Entry, sortLabels func([]string) []string) []core.SummaryPoint {
	values := make(map[string]any, len(entries))
	labels := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := values[e.Key]; !ok {
			labels = append(labels, e.Key)
		}
		values[e.Key] = e.Value
	}

	out := make([]core.SummaryPoint, 0, len(labels))
	for _, l := range sortLabels(labels) {
		out = append(out, core.SummaryPoint{Label: l, Total: core.Amount(values[l])})
	}
	return out
}

func latest(points []core.SummaryPoint) decimal.Decimal {
	if len(points) == 0 {
		return decimal.Zero
	}
	return points[len(points)-1].Total
}

// CategoryShares turns category totals into display shares, keeping input
// order. Percentages are of the sum of all amounts and are zero when that sum
// is not positive.
func CategoryShares(entries []Entry) []core.CategoryShare {
	out := make([]core.CategoryShare, 0, len(entries))
	sum := decimal.Zero
	for _, e := range entries {
		amount := core.Amount(e.Value)
		sum = sum.Add(amount)
		out = append(out, core.CategoryShare{
			Key:      e.Key,
			Category: DisplayCategory(e.Key),
			Amount:   amount,
		})
	}

	if sum.IsPositive() {
		for i := range out {
			out[i].PercentOfTotal = out[i].Amount.Mul(hundred).Div(sum).InexactFloat64()
		}
	}
	return out
}

// DisplayCategory renders a category key for display: COMMON_EXPENSE -> COMMON EXPENSE.
func DisplayCategory(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

// TopCategory returns the share with the largest amount. The first one wins
// a tie. With no shares it returns the core.NoneShare sentinel.
func TopCategory(shares []core.CategoryShare) core.CategoryShare {
	if len(shares) == 0 {
		return core.NoneShare()
	}
	top := shares[0]
	for _, s := range shares[1:] {
		if s.Amount.GreaterThan(top.Amount) {
			top = s
		}
	}
	return top
}
