package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func validExpense() Expense {
	return Expense{
		Name:        "Lunch",
		Description: "Team lunch",
		Amount:      decimal.RequireFromString("12.50"),
		Type:        "FOOD",
		Date:        NewDate(2025, 8, 14),
		PaymentType: "Cash",
	}
}

func TestExpense_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Expense)
		wantErr error
	}{
		{"valid", func(*Expense) {}, nil},
		{"empty name", func(e *Expense) { e.Name = "  " }, ErrEmptyName},
		{"zero amount", func(e *Expense) { e.Amount = decimal.Zero }, ErrInvalidAmount},
		{"negative amount", func(e *Expense) { e.Amount = decimal.NewFromInt(-1) }, ErrInvalidAmount},
		{"unknown category", func(e *Expense) { e.Type = "PETS" }, ErrUnknownCategory},
		{"unknown payment", func(e *Expense) { e.PaymentType = "Barter" }, ErrUnknownPayment},
		{"missing date", func(e *Expense) { e.Date = Date{} }, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validExpense()
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpense_ValidateDescriptionLength(t *testing.T) {
	e := validExpense()
	e.Description = strings.Repeat("x", 201)
	if err := e.Validate(); err == nil {
		t.Fatal("expected error for long description")
	}
}

func TestRecurringExpense_Validate(t *testing.T) {
	base := RecurringExpense{
		Name:      "Rent",
		Amount:    decimal.NewFromInt(900),
		Frequency: Monthly,
		Type:      "RENT",
		Status:    StatusActive,
		StartDate: NewDate(2025, 1, 1),
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid recurring expense rejected: %v", err)
	}

	bad := base
	bad.Frequency = "Daily"
	if err := bad.Validate(); !errors.Is(err, ErrUnknownFrequency) {
		t.Errorf("expected ErrUnknownFrequency, got %v", err)
	}

	bad = base
	bad.Status = "Gone"
	if err := bad.Validate(); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("expected ErrUnknownStatus, got %v", err)
	}

	bad = base
	bad.StartDate = Date{}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for missing start date")
	}
}

func TestDate_JSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"2025-08-14"`, "2025-08-14"},
		{`"2025-08-14T10:30:00Z"`, "2025-08-14"},
		{`null`, ""},
		{`""`, ""},
	}
	for _, tt := range tests {
		var d Date
		if err := json.Unmarshal([]byte(tt.in), &d); err != nil {
			t.Fatalf("Unmarshal(%s) error: %v", tt.in, err)
		}
		if d.String() != tt.want {
			t.Errorf("Unmarshal(%s) = %q, want %q", tt.in, d.String(), tt.want)
		}
	}

	var d Date
	if err := json.Unmarshal([]byte(`"14/08/2025"`), &d); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}

	b, err := json.Marshal(validExpense())
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if !strings.Contains(string(b), `"date":"2025-08-14"`) || !strings.Contains(string(b), `"amount":12.5`) {
		t.Errorf("unexpected expense JSON: %s", b)
	}
}
