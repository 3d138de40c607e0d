package core

import "github.com/shopspring/decimal"

// NoCategory is the label reported as top category when no categories exist.
const NoCategory = "-"

// SummaryPoint is one bucket of aggregated spend (a month, a week).
type SummaryPoint struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

// CategoryShare is a category's amount and its share of the category total.
type CategoryShare struct {
	Key            string          `json:"key"`
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	PercentOfTotal float64         `json:"percentOfTotal"`
}

// NoneShare returns the sentinel top category used when there are no categories.
func NoneShare() CategoryShare {
	return CategoryShare{Category: NoCategory, Amount: decimal.Zero}
}

// IsNone reports whether s is the NoneShare sentinel.
func (s CategoryShare) IsNone() bool {
	return s.Key == "" && s.Category == NoCategory
}

// DashboardSnapshot is the render-ready bundle produced by one fetch cycle.
// The progress total and the category totals come from different endpoints
// and are not required to reconcile.
type DashboardSnapshot struct {
	TotalAllTime   decimal.Decimal     `json:"totalAllTime"`
	MonthlySeries  []SummaryPoint      `json:"monthlySeries"`
	WeeklySeries   []SummaryPoint      `json:"weeklySeries"`
	CategoryShares []CategoryShare     `json:"categoryShares"`
	TopCategory    CategoryShare       `json:"topCategory"`
	LatestMonthly  decimal.Decimal     `json:"latestMonthly"`
	LatestWeekly   decimal.Decimal     `json:"latestWeekly"`
	MonthlyLimit   decimal.NullDecimal `json:"monthlyLimit"`
}
