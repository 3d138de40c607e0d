package dashboard

import (
	"cmp"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var monthIndex = map[string]int{
	"jan": 0, "feb": 1, "mar": 2, "apr": 3, "may": 4, "jun": 5,
	"jul": 6, "aug": 7, "sep": 8, "oct": 9, "nov": 10, "dec": 11,
}

// Month label shapes, tried in this order.
var (
	monthYearRe = regexp.MustCompile(`^(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+(\d{4})$`)
	monthOnlyRe = regexp.MustCompile(`^(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`)
	yearMonthRe = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})$`)
	firstIntRe  = regexp.MustCompile(`\d+`)
)

type monthKey struct {
	year, month int
}

// parseMonthLabel places a label on the calendar. Labels without a year
// ("Jan") get year 0; unrecognized labels get year 0, month 0.
func parseMonthLabel(label string) monthKey {
	s := strings.ToLower(strings.TrimSpace(label))

	if m := monthYearRe.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[2])
		return monthKey{year: y, month: monthIndex[m[1]]}
	}
	if m := monthOnlyRe.FindStringSubmatch(s); m != nil {
		return monthKey{year: 0, month: monthIndex[m[1]]}
	}
	if m := yearMonthRe.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		return monthKey{year: y, month: mo - 1}
	}
	return monthKey{}
}

// SortMonthLabels returns labels in chronological order. Ties, including
// every unrecognized label, fall back to comparing the raw labels.
func SortMonthLabels(labels []string) []string {
	type keyed struct {
		label string
		key   monthKey
	}
	ks := make([]keyed, len(labels))
	for i, l := range labels {
		ks[i] = keyed{label: l, key: parseMonthLabel(l)}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		if c := cmp.Compare(a.key.year, b.key.year); c != 0 {
			return c
		}
		if c := cmp.Compare(a.key.month, b.key.month); c != 0 {
			return c
		}
		return strings.Compare(a.label, b.label)
	})

	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = k.label
	}
	return out
}

// weekNumber is the first run of digits in label, or 0 when there is none.
// Runs too long for an int saturate.
func weekNumber(label string) int {
	d := firstIntRe.FindString(label)
	if d == "" {
		return 0
	}
	n, err := strconv.Atoi(d)
	if err != nil {
		return math.MaxInt
	}
	return n
}

// SortWeekLabels orders labels by their embedded number ("Week2" before
// "Week10"), then by the raw label.
func SortWeekLabels(labels []string) []string {
	type keyed struct {
		label string
		n     int
	}
	ks := make([]keyed, len(labels))
	for i, l := range labels {
		ks[i] = keyed{label: l, n: weekNumber(l)}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		if c := cmp.Compare(a.n, b.n); c != 0 {
			return c
		}
		return strings.Compare(a.label, b.label)
	})

	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = k.label
	}
	return out
}
