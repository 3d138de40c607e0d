package expenseapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"expensedash/internal/core"
)

const pathRecurring = "/RExpense"

// decodeList accepts a bare array or a page object {"content": [...]}.
func decodeList[T any](raw []byte, path string) ([]T, error) {
	out := []T{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, nil
	}
	if raw[0] == '{' {
		var page struct {
			Content []T `json:"content"`
		}
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, fmt.Errorf("decode %s response: %w", path, err)
		}
		if page.Content != nil {
			out = page.Content
		}
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	return out, nil
}

// ListExpenses returns every expense of the signed-in user.
func (c *Client) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	raw, err := c.do(ctx, http.MethodGet, c.expenseURL, "", nil, true)
	if err != nil {
		return nil, err
	}
	return decodeList[core.Expense](raw, "/")
}

func (c *Client) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	var out core.Expense
	err := c.doJSON(ctx, http.MethodGet, c.expenseURL, fmt.Sprintf("/%d", id), nil, &out, true)
	return out, err
}

// CreateExpense validates e and posts it. The backend's echo is returned
// when it sends one, otherwise e itself.
func (c *Client) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("%w: expense: %w", ErrInvalidInput, err)
	}
	out := e
	if err := c.doJSON(ctx, http.MethodPost, c.expenseURL, "", e, &out, true); err != nil {
		return core.Expense{}, err
	}
	return out, nil
}

func (c *Client) UpdateExpense(ctx context.Context, id int64, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("%w: expense: %w", ErrInvalidInput, err)
	}
	e.ID = id
	out := e
	if err := c.doJSON(ctx, http.MethodPut, c.expenseURL, fmt.Sprintf("/%d", id), e, &out, true); err != nil {
		return core.Expense{}, err
	}
	return out, nil
}

func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, c.expenseURL, fmt.Sprintf("/%d", id), nil, true)
	return err
}

// ListRecurring returns every recurring expense of the signed-in user.
func (c *Client) ListRecurring(ctx context.Context) ([]core.RecurringExpense, error) {
	raw, err := c.do(ctx, http.MethodGet, c.expenseURL, pathRecurring, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeList[core.RecurringExpense](raw, pathRecurring)
}

func (c *Client) GetRecurring(ctx context.Context, id int64) (core.RecurringExpense, error) {
	var out core.RecurringExpense
	err := c.doJSON(ctx, http.MethodGet, c.expenseURL, fmt.Sprintf("%s/%d", pathRecurring, id), nil, &out, true)
	return out, err
}

func (c *Client) CreateRecurring(ctx context.Context, re core.RecurringExpense) (core.RecurringExpense, error) {
	if err := re.Validate(); err != nil {
		return core.RecurringExpense{}, fmt.Errorf("%w: recurring expense: %w", ErrInvalidInput, err)
	}
	out := re
	if err := c.doJSON(ctx, http.MethodPost, c.expenseURL, pathRecurring, re, &out, true); err != nil {
		return core.RecurringExpense{}, err
	}
	return out, nil
}

func (c *Client) UpdateRecurring(ctx context.Context, id int64, re core.RecurringExpense) (core.RecurringExpense, error) {
	if err := re.Validate(); err != nil {
		return core.RecurringExpense{}, fmt.Errorf("%w: recurring expense: %w", ErrInvalidInput, err)
	}
	re.ID = id
	out := re
	if err := c.doJSON(ctx, http.MethodPut, c.expenseURL, fmt.Sprintf("%s/%d", pathRecurring, id), re, &out, true); err != nil {
		return core.RecurringExpense{}, err
	}
	return out, nil
}

func (c *Client) DeleteRecurring(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, c.expenseURL, fmt.Sprintf("%s/%d", pathRecurring, id), nil, true)
	return err
}
