package expenseapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed backend call.
type Kind int

const (
	// KindNetwork is a transport failure: no response was received.
	KindNetwork Kind = iota
	// KindAuth is a 401/403 reply, usually a missing or expired token.
	KindAuth
	// KindStatus is any other non-2xx reply.
	KindStatus
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Error is returned for every failed backend call.
type Error struct {
	Kind       Kind
	StatusCode int
	Endpoint   string
	// Message is the backend's "message" field, when the body had one.
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindNetwork:
		return fmt.Sprintf("%s: network error: %v", e.Endpoint, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s: status %d", e.Endpoint, e.StatusCode)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage is the short text shown to the user for this failure.
func (e *Error) UserMessage() string {
	switch {
	case e.Message != "":
		return e.Message
	case errors.Is(e.Err, ErrBodyTooLarge):
		return "Response too large"
	case e.StatusCode > 0:
		return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
	case e.Kind == KindNetwork:
		return "Network Error"
	default:
		return "Failed to load"
	}
}

// UserMessage extracts the user-facing message from any error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return "Failed to load"
}

// ErrBodyTooLarge is the cause of an Error whose response body exceeded the
// client's size cap.
var ErrBodyTooLarge = errors.New("response body too large")

// ErrInvalidInput marks a request rejected locally, before anything was sent.
var ErrInvalidInput = errors.New("invalid input")

// IsAuth reports whether err is an authorization failure.
func IsAuth(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuth
}

// IsNotFound reports whether err is a 404 reply.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// KindOf returns the classified kind name, or "" for non-API errors.
func KindOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind.String()
	}
	return ""
}

func statusError(endpoint string, status int, body []byte) *Error {
	kind := KindStatus
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		kind = KindAuth
	}
	return &Error{
		Kind:       kind,
		StatusCode: status,
		Endpoint:   endpoint,
		Message:    bodyMessage(body),
	}
}

func bodyMessage(body []byte) string {
	var payload struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	s, ok := payload.Message.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
