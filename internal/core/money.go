// Package core provides money parsing and handling utilities.
//
// This file contains the lenient numeric coercion used on backend payloads
// and the strict amount parser used on user input.
package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency code amounts are displayed in.
const DefaultCurrency = "INR"

// Amount coerces an arbitrary decoded JSON value into a decimal.
//
// Missing, non-numeric and non-finite values become zero; the result is never
// NaN. Numeric strings are accepted ("12.50"), booleans are not. Numbers are
// read at float64 precision, so anything outside float64 range is zero and
// tiny exponents collapse to zero instead of producing a huge-scale decimal.
//
// Examples:
//
//	Amount(json.Number("12.5")) -> 12.5
//	Amount("bad")               -> 0
//	Amount(nil)                 -> 0
//	Amount(math.Inf(1))         -> 0
//	Amount(json.Number("1e400")) -> 0
func Amount(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return n
	case json.Number:
		return parseLenient(string(n))
	case float64:
		return fromFloat(n)
	case float32:
		return fromFloat(float64(n))
	case int:
		return decimal.NewFromInt(int64(n))
	case int32:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case string:
		return parseLenient(n)
	default:
		return decimal.Zero
	}
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func parseLenient(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return decimal.Zero
	}
	return fromFloat(f)
}

// ParseAmount converts a user-typed decimal string into a positive amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half-up to two decimal places. Returns ErrInvalidAmount for invalid formats,
// negative values, or amounts that round to zero.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("12.345") -> 12.35, nil
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range s {
		if r != '.' && (r < '0' || r > '9') {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatCurrency renders an amount with two decimals and a currency code,
// e.g. "INR 1,234.50". An empty code falls back to DefaultCurrency.
func FormatCurrency(d decimal.Decimal, code string) string {
	if code == "" {
		code = DefaultCurrency
	}
	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	s := b.String() + "." + frac
	if neg {
		return "-" + code + " " + s
	}
	return code + " " + s
}
