// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"expensedash/internal/core"
	"expensedash/internal/expenseapi"
)

const maxRequestBody = 1 << 20

var errEmptyBody = errors.New("request body is empty")

// DecodeJSON reads a bounded JSON body into v. Unknown fields are ignored.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return fmt.Errorf("malformed JSON: %w", err)
	}
	return nil
}

// PathID parses the {id} path segment as a positive integer.
func PathID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// sanitizeInput removes control characters except tab, newline and carriage
// return and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func sanitizeExpense(e core.Expense) core.Expense {
	e.Name = sanitizeInput(e.Name)
	e.Description = sanitizeInput(e.Description)
	e.Type = strings.ToUpper(sanitizeInput(e.Type))
	e.PaymentType = sanitizeInput(e.PaymentType)
	return e
}

func sanitizeRecurring(re core.RecurringExpense) core.RecurringExpense {
	re.Name = sanitizeInput(re.Name)
	re.Description = sanitizeInput(re.Description)
	re.Type = strings.ToUpper(sanitizeInput(re.Type))
	re.PaymentType = sanitizeInput(re.PaymentType)
	return re
}

func isInvalidInput(err error) bool {
	return errors.Is(err, expenseapi.ErrInvalidInput)
}

func errorKind(err error) string {
	if isInvalidInput(err) {
		return "validation"
	}
	return expenseapi.KindOf(err)
}
