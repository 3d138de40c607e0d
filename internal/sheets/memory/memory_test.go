package memory

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"expensedash/internal/core"
)

func sampleSnapshot() core.DashboardSnapshot {
	food := core.CategoryShare{Key: "FOOD", Category: "FOOD", Amount: decimal.RequireFromString("40"), PercentOfTotal: 100}
	return core.DashboardSnapshot{
		TotalAllTime:   decimal.RequireFromString("40"),
		MonthlySeries:  []core.SummaryPoint{{Label: "Jan 2025", Total: decimal.RequireFromString("40")}},
		WeeklySeries:   []core.SummaryPoint{{Label: "Week 1", Total: decimal.RequireFromString("40")}},
		CategoryShares: []core.CategoryShare{food},
		TopCategory:    food,
		LatestMonthly:  decimal.RequireFromString("40"),
		LatestWeekly:   decimal.RequireFromString("40"),
	}
}

func TestStoreExportRecords(t *testing.T) {
	s := New(nil)
	if _, ok := s.Last(); ok {
		t.Fatal("expected no exports yet")
	}

	at := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	for i, want := range []string{"mem:1", "mem:2"} {
		ref, err := s.Export(context.Background(), sampleSnapshot(), at.Add(time.Duration(i)*time.Hour))
		if err != nil || ref != want {
			t.Fatalf("unexpected export: ref=%q err=%v", ref, err)
		}
	}

	if got := len(s.Exports()); got != 2 {
		t.Fatalf("expected 2 exports, got %d", got)
	}
	last, ok := s.Last()
	if !ok || !last.At.Equal(at.Add(time.Hour)) {
		t.Fatalf("unexpected last export: %+v", last)
	}
}

func TestStoreExportPrintsTable(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf)
	if _, err := s.Export(context.Background(), sampleSnapshot(), time.Now()); err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Total", "40.00", "Jan 2025", "Week 1", "FOOD", "100.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
