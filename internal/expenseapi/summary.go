package expenseapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"expensedash/internal/core"
)

const (
	PathProgress       = "/progress"
	PathMonthlySummary = "/monthly-summary"
	PathWeeklySummary  = "/weekly-summary"
	PathCategoryTotals = "/summary/type"
	PathLimit          = "/getLimit"
	PathProfile        = "/getProfile"
)

// Summary bodies are returned raw: their shapes are not contractually fixed
// and are normalized by the dashboard package.

func (c *Client) Progress(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, c.expenseURL, PathProgress, nil, true)
}

func (c *Client) MonthlySummary(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, c.expenseURL, PathMonthlySummary, nil, true)
}

func (c *Client) WeeklySummary(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, c.expenseURL, PathWeeklySummary, nil, true)
}

func (c *Client) CategoryTotals(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, c.expenseURL, PathCategoryTotals, nil, true)
}

// MonthlyLimit returns the user's monthly budget ceiling. The body is either
// {"monthlyLimit": n} or a bare number.
func (c *Client) MonthlyLimit(ctx context.Context) (decimal.Decimal, error) {
	raw, err := c.do(ctx, http.MethodGet, c.userURL, PathLimit, nil, true)
	if err != nil {
		return decimal.Zero, err
	}
	var v any
	if err := unmarshalNumber(raw, &v); err != nil {
		return decimal.Zero, nil
	}
	if m, ok := v.(map[string]any); ok {
		return core.Amount(m["monthlyLimit"]), nil
	}
	return core.Amount(v), nil
}

// Profile is the signed-in user's account data.
type Profile struct {
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	MonthlyLimit decimal.Decimal `json:"monthlyLimit"`
}

func (c *Client) Profile(ctx context.Context) (Profile, error) {
	raw, err := c.do(ctx, http.MethodGet, c.userURL, PathProfile, nil, true)
	if err != nil {
		return Profile{}, err
	}
	var v map[string]any
	if err := unmarshalNumber(raw, &v); err != nil {
		return Profile{}, nil
	}
	p := Profile{MonthlyLimit: core.Amount(v["monthlyLimit"])}
	p.Username, _ = v["username"].(string)
	p.Email, _ = v["email"].(string)
	return p, nil
}

func unmarshalNumber(raw []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(out)
}
