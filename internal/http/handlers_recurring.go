package http

import (
	"net/http"

	"expensedash/internal/core"
	applog "expensedash/internal/log"
)

// recurringItem is a recurring expense with its next due date; NextDue is
// null for paused or inactive ones.
type recurringItem struct {
	core.RecurringExpense
	NextDue *core.Date `json:"nextDue"`
}

func withNextDue(re core.RecurringExpense, today core.Date) recurringItem {
	item := recurringItem{RecurringExpense: re}
	if next, ok := core.NextDue(re, today); ok {
		item.NextDue = &next
	}
	return item
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	items, err := s.api.ListRecurring(r.Context())
	if err != nil {
		s.logAPIError(r, "List recurring expenses failed", applog.OpList, err)
		APIError(err).Write(w)
		return
	}

	today := core.Today()
	out := make([]recurringItem, len(items))
	for i, re := range items {
		out[i] = withNextDue(re, today)
	}
	NewResponse().JSON(map[string]interface{}{
		"items": out,
		"total": len(out),
	}).Write(w)
}

func (s *Server) handleGetRecurring(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	re, err := s.api.GetRecurring(r.Context(), id)
	if err != nil {
		s.logAPIError(r, "Get recurring expense failed", applog.OpRead, err, applog.FieldExpenseID, id)
		APIError(err).Write(w)
		return
	}
	NewResponse().JSON(withNextDue(re, core.Today())).Write(w)
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var in core.RecurringExpense
	if err := DecodeJSON(w, r, &in); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	in = sanitizeRecurring(in)
	in.ID = 0
	if in.Status == "" {
		in.Status = core.StatusActive
	}

	created, err := s.api.CreateRecurring(r.Context(), in)
	if err != nil {
		s.mutationFailed(w, r, "Recurring Expense Creation Failed", applog.OpCreate, err)
		return
	}
	s.requestLogger(r).InfoContext(r.Context(), "Recurring expense created",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldExpenseID, created.ID,
		"frequency", string(created.Frequency))
	s.mutationSucceeded(w, r, http.StatusCreated, "Recurring Expense Created", created.Name, created)
}

func (s *Server) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	var in core.RecurringExpense
	if err := DecodeJSON(w, r, &in); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	in = sanitizeRecurring(in)

	updated, err := s.api.UpdateRecurring(r.Context(), id, in)
	if err != nil {
		s.mutationFailed(w, r, "Recurring Expense Update Failed", applog.OpUpdate, err, applog.FieldExpenseID, id)
		return
	}
	s.requestLogger(r).InfoContext(r.Context(), "Recurring expense updated",
		applog.FieldOperation, applog.OpUpdate,
		applog.FieldExpenseID, id)
	s.mutationSucceeded(w, r, http.StatusOK, "Recurring Expense Updated", updated.Name, updated)
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if err := s.api.DeleteRecurring(r.Context(), id); err != nil {
		s.mutationFailed(w, r, "Recurring Expense Deletion Failed", applog.OpDelete, err, applog.FieldExpenseID, id)
		return
	}
	s.requestLogger(r).InfoContext(r.Context(), "Recurring expense deleted",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldExpenseID, id)
	s.mutationSucceeded(w, r, http.StatusOK, "Recurring Expense Deleted", "", map[string]int64{"id": id})
}

// handleToggleRecurring pauses an active recurring expense and reactivates
// any other.
func (s *Server) handleToggleRecurring(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	re, err := s.api.GetRecurring(r.Context(), id)
	if err != nil {
		s.mutationFailed(w, r, "Recurring Expense Update Failed", applog.OpRead, err, applog.FieldExpenseID, id)
		return
	}
	re.Status = re.Status.Toggled()

	updated, err := s.api.UpdateRecurring(r.Context(), id, re)
	if err != nil {
		s.mutationFailed(w, r, "Recurring Expense Update Failed", applog.OpUpdate, err, applog.FieldExpenseID, id)
		return
	}
	s.requestLogger(r).InfoContext(r.Context(), "Recurring expense toggled",
		applog.FieldOperation, applog.OpUpdate,
		applog.FieldExpenseID, id,
		"status", string(updated.Status))
	s.mutationSucceeded(w, r, http.StatusOK, "Recurring Expense "+string(updated.Status), updated.Name,
		withNextDue(updated, core.Today()))
}
