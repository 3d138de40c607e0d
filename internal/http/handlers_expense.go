package http

import (
	"net/http"
	"strings"

	"expensedash/internal/core"
	"expensedash/internal/expenseapi"
	applog "expensedash/internal/log"
	"expensedash/internal/notify"
)

type expenseList struct {
	Items      []core.Expense `json:"items"`
	Categories []string       `json:"categories"`
	Total      int            `json:"total"`
}

// handleListExpenses lists the user's expenses. search matches descriptions
// case-insensitively; category "all" or empty matches everything. The
// category list is built from the unfiltered set.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	items, err := s.api.ListExpenses(ctx)
	if err != nil {
		s.logAPIError(r, "List expenses failed", applog.OpList, err)
		APIError(err).Write(w)
		return
	}

	q := r.URL.Query()
	search := sanitizeInput(q.Get("search"))
	category := strings.TrimSpace(q.Get("category"))
	filtered := core.FilterExpenses(items, search, category)

	NewResponse().JSON(expenseList{
		Items:      filtered,
		Categories: core.ExpenseCategories(items),
		Total:      len(items),
	}).Write(w)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	e, err := s.api.GetExpense(r.Context(), id)
	if err != nil {
		s.logAPIError(r, "Get expense failed", applog.OpRead, err, applog.FieldExpenseID, id)
		APIError(err).Write(w)
		return
	}
	NewResponse().JSON(e).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var in core.Expense
	if err := DecodeJSON(w, r, &in); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	in = sanitizeExpense(in)
	in.ID = 0

	created, err := s.api.CreateExpense(r.Context(), in)
	if err != nil {
		s.mutationFailed(w, r, "Expense Creation Failed", applog.OpCreate, err)
		return
	}

	s.requestLogger(r).InfoContext(r.Context(), "Expense created",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldExpenseID, created.ID,
		"category", created.Type)
	s.mutationSucceeded(w, r, http.StatusCreated, "Expense Created", created.Name, created)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	var in core.Expense
	if err := DecodeJSON(w, r, &in); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	in = sanitizeExpense(in)

	updated, err := s.api.UpdateExpense(r.Context(), id, in)
	if err != nil {
		s.mutationFailed(w, r, "Expense Update Failed", applog.OpUpdate, err, applog.FieldExpenseID, id)
		return
	}
	s.requestLogger(r).InfoContext(r.Context(), "Expense updated",
		applog.FieldOperation, applog.OpUpdate,
		applog.FieldExpenseID, id)
	s.mutationSucceeded(w, r, http.StatusOK, "Expense Updated", updated.Name, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if err := s.api.DeleteExpense(r.Context(), id); err != nil {
		s.mutationFailed(w, r, "Expense Deletion Failed", applog.OpDelete, err, applog.FieldExpenseID, id)
		return
	}
	s.requestLogger(r).InfoContext(r.Context(), "Expense deleted",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldExpenseID, id)
	s.mutationSucceeded(w, r, http.StatusOK, "Expense Deleted", "", map[string]int64{"id": id})
}

// mutationSucceeded writes body with a success toast and publishes the same
// toast to the notification bus.
func (s *Server) mutationSucceeded(w http.ResponseWriter, r *http.Request, status int, title, message string, body interface{}) {
	s.publish(r.Context(), notify.Success(title, message))
	NewResponse().Status(status).JSON(body).TriggerSuccessNotification(title, message).Write(w)
}

func (s *Server) mutationFailed(w http.ResponseWriter, r *http.Request, title, op string, err error, fields ...interface{}) {
	s.logAPIError(r, title, op, err, fields...)
	msg := errorMessage(err)
	s.publish(r.Context(), notify.Failure(title, msg))
	APIError(err).TriggerErrorNotification(title, msg).Write(w)
}

func (s *Server) logAPIError(r *http.Request, msg, op string, err error, fields ...interface{}) {
	args := append([]interface{}{
		applog.FieldOperation, op,
		applog.FieldError, err.Error(),
	}, fields...)
	level := s.requestLogger(r).WarnContext
	if !isInvalidInput(err) {
		level = s.requestLogger(r).ErrorContext
	}
	level(r.Context(), msg, args...)
}

// errorMessage is the toast text for a failed mutation. Local validation
// errors are shown as they are; backend failures use the backend's message.
func errorMessage(err error) string {
	if isInvalidInput(err) {
		return err.Error()
	}
	return expenseapi.UserMessage(err)
}
