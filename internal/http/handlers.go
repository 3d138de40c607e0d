package http

import (
	"context"
	"net/http"
	"time"

	"expensedash/internal/core"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports readiness together with the state of local components.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	code := http.StatusOK
	checks := map[string]interface{}{
		"sessions":     map[string]interface{}{"active": s.sessions.size(), "status": "ok"},
		"rate_limiter": map[string]interface{}{"active_clients": s.rateLimiter.ActiveClients(), "status": "ok"},
	}

	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			checks["dependencies"] = "failed: " + err.Error()
			status = "not_ready"
			code = http.StatusServiceUnavailable
		} else {
			checks["dependencies"] = "ok"
		}
	}

	NewResponse().Status(code).JSON(map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// handleMeta lists the values the expense and recurring forms offer.
func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]interface{}{
		"categories":   core.Categories,
		"paymentTypes": core.PaymentTypes,
		"frequencies": []core.Frequency{
			core.Weekly, core.BiWeekly, core.Monthly,
			core.Quarterly, core.SemiAnnually, core.Annually,
		},
		"statuses": []core.RecurringStatus{core.StatusActive, core.StatusPaused, core.StatusInactive},
		"currency": core.DefaultCurrency,
	}).Write(w)
}
