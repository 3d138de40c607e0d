package http

import (
	"net/http"

	applog "expensedash/internal/log"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin proxies the login call. The returned JWT is for the browser to
// keep and send back as a bearer token; the server stores nothing.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := DecodeJSON(w, r, &in); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	res, err := s.api.Login(r.Context(), sanitizeInput(in.Username), in.Password)
	if err != nil {
		s.requestLogger(r).WarnContext(r.Context(), "Login failed",
			applog.FieldOperation, applog.OpLogin,
			applog.FieldErrorKind, errorKind(err))
		APIError(err).TriggerErrorNotification("Login Failed", errorMessage(err)).Write(w)
		return
	}

	s.requestLogger(r).InfoContext(r.Context(), "Login succeeded", applog.FieldOperation, applog.OpLogin)
	NewResponse().JSON(res).TriggerSuccessNotification("Login Successful", "").Write(w)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := DecodeJSON(w, r, &in); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	reg, err := s.api.Register(r.Context(), sanitizeInput(in.Username), sanitizeInput(in.Email), in.Password)
	if err != nil {
		s.requestLogger(r).WarnContext(r.Context(), "Registration failed",
			applog.FieldOperation, applog.OpCreate,
			applog.FieldErrorKind, errorKind(err))
		APIError(err).TriggerErrorNotification("Registration Failed", errorMessage(err)).Write(w)
		return
	}
	NewResponse().Status(http.StatusCreated).JSON(reg).
		TriggerSuccessNotification("Registration Successful", "You can now sign in").Write(w)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.api.Profile(r.Context())
	if err != nil {
		s.logAPIError(r, "Profile fetch failed", applog.OpRead, err)
		APIError(err).Write(w)
		return
	}
	NewResponse().JSON(p).Write(w)
}
