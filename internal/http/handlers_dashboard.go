package http

import (
	"errors"
	"net/http"

	"expensedash/internal/core"
	"expensedash/internal/dashboard"
	"expensedash/internal/expenseapi"
	applog "expensedash/internal/log"
	"expensedash/internal/notify"
)

// handleDashboard runs one fetch cycle for the caller's session. On failure
// the session keeps its previous snapshot.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := s.sessions.view(s.requestToken(ctx))

	snap, err := view.Refresh(ctx)
	if err != nil {
		s.dashboardError(w, r, err)
		return
	}

	s.requestLogger(r).DebugContext(ctx, "Dashboard refreshed",
		applog.FieldOperation, applog.OpRefresh,
		applog.FieldMonths, len(snap.MonthlySeries),
		applog.FieldWeeks, len(snap.WeeklySeries),
		applog.FieldCategories, len(snap.CategoryShares))
	s.publish(ctx, notify.New(notify.TypeInfo, "Dashboard refreshed",
		"Total spent "+core.FormatCurrency(snap.TotalAllTime, "")))

	NewResponse().JSON(snap).Write(w)
}

// handleDashboardClose disposes the caller's session view.
func (s *Server) handleDashboardClose(w http.ResponseWriter, r *http.Request) {
	s.sessions.drop(s.requestToken(r.Context()))
	NewResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleMonthlySeries(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot(w, r)
	if !ok {
		return
	}
	NewResponse().JSON(map[string]interface{}{
		"series": snap.MonthlySeries,
		"latest": snap.LatestMonthly,
		"limit":  snap.MonthlyLimit,
	}).Write(w)
}

func (s *Server) handleWeeklySeries(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot(w, r)
	if !ok {
		return
	}
	NewResponse().JSON(map[string]interface{}{
		"series": snap.WeeklySeries,
		"latest": snap.LatestWeekly,
	}).Write(w)
}

func (s *Server) handleCategoryShares(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot(w, r)
	if !ok {
		return
	}
	NewResponse().JSON(map[string]interface{}{
		"shares": snap.CategoryShares,
		"top":    snap.TopCategory,
	}).Write(w)
}

// currentSnapshot returns the session snapshot, refreshing first when the
// session has none yet. It writes the error response itself.
func (s *Server) currentSnapshot(w http.ResponseWriter, r *http.Request) (core.DashboardSnapshot, bool) {
	view := s.sessions.view(s.requestToken(r.Context()))
	snap, err := view.Current(r.Context())
	if err != nil {
		s.dashboardError(w, r, err)
		return core.DashboardSnapshot{}, false
	}
	return snap, true
}

// dashboardError maps a failed cycle: auth failures are 401, a session
// closed mid-cycle is 409, anything else is 502.
func (s *Server) dashboardError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status := http.StatusBadGateway
	msg := expenseapi.UserMessage(err)
	switch {
	case errors.Is(err, dashboard.ErrDisposed):
		status = http.StatusConflict
		msg = "Dashboard session was closed"
	case expenseapi.IsAuth(err):
		status = http.StatusUnauthorized
	}

	s.requestLogger(r).WarnContext(ctx, "Dashboard refresh failed",
		applog.FieldOperation, applog.OpRefresh,
		applog.FieldStatusCode, status,
		applog.FieldErrorKind, expenseapi.KindOf(err),
		applog.FieldError, err.Error())
	s.publish(ctx, notify.Failure("Dashboard refresh failed", msg))

	ErrorResponse(status, msg).TriggerErrorNotification("Dashboard refresh failed", msg).Write(w)
}
