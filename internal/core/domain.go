package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

const (
	Weekly       Frequency = "Weekly"
	BiWeekly     Frequency = "BiWeekly"
	Monthly      Frequency = "Monthly"
	Quarterly    Frequency = "Quarterly"
	SemiAnnually Frequency = "SemiAnnually"
	Annually     Frequency = "Annually"
)

const (
	StatusActive   RecurringStatus = "Active"
	StatusPaused   RecurringStatus = "Paused"
	StatusInactive RecurringStatus = "Inactive"
)

// Categories known by the backend, in the order the forms list them.
var Categories = []string{
	"FOOD",
	"GROCERY",
	"CLOTHS",
	"EDUCATION",
	"MEDICAL",
	"INVESTMENT",
	"COMMON_EXPENSE",
	"HOME_DECOR",
	"ACCESSORIES",
	"RENT",
	"TRAVEL",
	"BUSINESS",
	"OTHER",
}

var PaymentTypes = []string{
	"Cash",
	"CreditCard",
	"DebitCard",
	"BankTransfer",
	"DigitalWallet",
	"Other",
}

type (
	Frequency       string
	RecurringStatus string

	// Date is a calendar day serialized as YYYY-MM-DD.
	Date struct {
		time.Time
	}

	Expense struct {
		ID          int64           `json:"id,omitempty"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Type        string          `json:"type"`
		Date        Date            `json:"date"`
		PaymentType string          `json:"paymentType"`
	}

	RecurringExpense struct {
		ID          int64           `json:"id,omitempty"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Frequency   Frequency       `json:"frequency"`
		Type        string          `json:"type"`
		PaymentType string          `json:"paymentType"`
		Status      RecurringStatus `json:"status"`
		StartDate   Date            `json:"startDate"`
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyName        = errors.New("empty name")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrUnknownPayment   = errors.New("unknown payment type")
	ErrUnknownFrequency = errors.New("unknown frequency")
	ErrUnknownStatus    = errors.New("unknown status")
)

func init() {
	// The backend expects JSON numbers for amounts.
	decimal.MarshalJSONWithoutQuotes = true
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// Today returns the current UTC calendar day.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// UnmarshalJSON accepts YYYY-MM-DD, a full RFC 3339 timestamp, or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, b)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		*d = NewDate(t.Year(), int(t.Month()), t.Day())
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (f Frequency) Valid() bool {
	switch f {
	case Weekly, BiWeekly, Monthly, Quarterly, SemiAnnually, Annually:
		return true
	}
	return false
}

func (s RecurringStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusInactive:
		return true
	}
	return false
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !contains(Categories, e.Type) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, e.Type)
	}
	if !contains(PaymentTypes, e.PaymentType) {
		return fmt.Errorf("%w: %q", ErrUnknownPayment, e.PaymentType)
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (re RecurringExpense) Validate() error {
	if strings.TrimSpace(re.Name) == "" {
		return ErrEmptyName
	}
	if len(re.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !re.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !re.Frequency.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownFrequency, re.Frequency)
	}
	if !contains(Categories, re.Type) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, re.Type)
	}
	if re.PaymentType != "" && !contains(PaymentTypes, re.PaymentType) {
		return fmt.Errorf("%w: %q", ErrUnknownPayment, re.PaymentType)
	}
	if !re.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, re.Status)
	}
	if re.StartDate.IsZero() {
		return errors.New("invalid start date: " + ErrInvalidDate.Error())
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
