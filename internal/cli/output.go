package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"expensedash/internal/core"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func money(d decimal.Decimal) string {
	return core.FormatCurrency(d, "")
}

func limitText(l decimal.NullDecimal) string {
	if !l.Valid {
		return "-"
	}
	return money(l.Decimal)
}

// printSnapshot renders a snapshot as headline figures followed by the
// monthly, weekly and category tables.
func printSnapshot(w io.Writer, snap core.DashboardSnapshot) error {
	t := newTable(w)
	fmt.Fprintf(t, "Total spent\t%s\n", money(snap.TotalAllTime))
	fmt.Fprintf(t, "Latest month\t%s\n", money(snap.LatestMonthly))
	fmt.Fprintf(t, "Latest week\t%s\n", money(snap.LatestWeekly))
	fmt.Fprintf(t, "Monthly limit\t%s\n", limitText(snap.MonthlyLimit))
	if snap.TopCategory.IsNone() {
		fmt.Fprintf(t, "Top category\t%s\n", core.NoCategory)
	} else {
		fmt.Fprintf(t, "Top category\t%s (%s)\n", snap.TopCategory.Category, money(snap.TopCategory.Amount))
	}
	if err := t.Flush(); err != nil {
		return err
	}

	if len(snap.MonthlySeries) > 0 {
		fmt.Fprintln(w)
		t = newTable(w)
		fmt.Fprintln(t, "MONTH\tTOTAL")
		fmt.Fprintln(t, "-----\t-----")
		for _, p := range snap.MonthlySeries {
			fmt.Fprintf(t, "%s\t%s\n", p.Label, money(p.Total))
		}
		if err := t.Flush(); err != nil {
			return err
		}
	}

	if len(snap.WeeklySeries) > 0 {
		fmt.Fprintln(w)
		t = newTable(w)
		fmt.Fprintln(t, "WEEK\tTOTAL")
		fmt.Fprintln(t, "----\t-----")
		for _, p := range snap.WeeklySeries {
			fmt.Fprintf(t, "%s\t%s\n", p.Label, money(p.Total))
		}
		if err := t.Flush(); err != nil {
			return err
		}
	}

	if len(snap.CategoryShares) > 0 {
		fmt.Fprintln(w)
		t = newTable(w)
		fmt.Fprintln(t, "CATEGORY\tAMOUNT\tSHARE")
		fmt.Fprintln(t, "--------\t------\t-----")
		for _, s := range snap.CategoryShares {
			fmt.Fprintf(t, "%s\t%s\t%.2f%%\n", s.Category, money(s.Amount), s.PercentOfTotal)
		}
		if err := t.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func printExpenses(w io.Writer, items []core.Expense) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No expenses found")
		return nil
	}
	t := newTable(w)
	fmt.Fprintln(t, "ID\tDATE\tNAME\tCATEGORY\tPAYMENT\tAMOUNT\tDESCRIPTION")
	fmt.Fprintln(t, "--\t----\t----\t--------\t-------\t------\t-----------")
	for _, e := range items {
		fmt.Fprintf(t, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Date, e.Name, e.Type, e.PaymentType, money(e.Amount), truncate(e.Description, 40))
	}
	return t.Flush()
}

func printRecurring(w io.Writer, items []core.RecurringExpense) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No recurring expenses found")
		return nil
	}
	today := core.Today()
	t := newTable(w)
	fmt.Fprintln(t, "ID\tNAME\tFREQUENCY\tNEXT DUE\tSTATUS\tCATEGORY\tAMOUNT")
	fmt.Fprintln(t, "--\t----\t---------\t--------\t------\t--------\t------")
	for _, re := range items {
		next := "-"
		if d, ok := core.NextDue(re, today); ok {
			next = d.String()
		}
		fmt.Fprintf(t, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			re.ID, re.Name, re.Frequency, next, re.Status, re.Type, money(re.Amount))
	}
	return t.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
