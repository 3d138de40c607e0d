package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"expensedash/internal/core"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"name":"Lunch"}`, ""},
		{"unknown fields ignored", `{"name":"Lunch","extra":1}`, ""},
		{"empty", ``, "request body is empty"},
		{"malformed", `{"name":`, "malformed JSON"},
		{"too large", `{"name":"` + strings.Repeat("a", maxRequestBody) + `"}`, "request body exceeds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var v struct{ Name string }
			err := DecodeJSON(httptest.NewRecorder(), r, &v)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if v.Name != "Lunch" {
					t.Errorf("name = %q", v.Name)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"12", 12, false},
		{" 7 ", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.SetPathValue("id", tt.raw)
		got, err := PathID(r)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("PathID(%q) = %d, %v", tt.raw, got, err)
		}
	}
}

func TestSanitizeExpense(t *testing.T) {
	in := core.Expense{
		Name:        "  Lunch\x00 ",
		Description: "line1\nline2\x07",
		Type:        " food ",
		PaymentType: "Cash\x1b",
	}
	got := sanitizeExpense(in)
	if got.Name != "Lunch" || got.Description != "line1\nline2" || got.Type != "FOOD" || got.PaymentType != "Cash" {
		t.Errorf("sanitizeExpense = %+v", got)
	}
}
