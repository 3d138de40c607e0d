// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for JSON responses. Toasts for
// the browser travel in the HX-Trigger header as a show-notification event.

package http

import (
	"encoding/json"
	"net/http"

	"expensedash/internal/expenseapi"
)

// ResponseBuilder provides a fluent API for building JSON responses with
// optional HX-Trigger events.
type ResponseBuilder struct {
	triggers   map[string]interface{}
	statusCode int
	body       interface{}
	headers    map[string]string
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		triggers:   make(map[string]interface{}),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named event with optional data to the HX-Trigger header.
func (b *ResponseBuilder) Trigger(name string, data interface{}) *ResponseBuilder {
	b.triggers[name] = data
	return b
}

// NotificationType represents the type of notification to display.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationInfo    NotificationType = "info"
)

// TriggerNotification adds a show-notification event.
func (b *ResponseBuilder) TriggerNotification(notifType NotificationType, title, message string, durationMs int) *ResponseBuilder {
	data := map[string]interface{}{
		"type":     string(notifType),
		"title":    title,
		"duration": durationMs,
	}
	if message != "" {
		data["message"] = message
	}
	return b.Trigger("show-notification", data)
}

func (b *ResponseBuilder) TriggerSuccessNotification(title, message string) *ResponseBuilder {
	return b.TriggerNotification(NotificationSuccess, title, message, 3000)
}

func (b *ResponseBuilder) TriggerErrorNotification(title, message string) *ResponseBuilder {
	return b.TriggerNotification(NotificationError, title, message, 5000)
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// JSON sets the value encoded as the response body.
func (b *ResponseBuilder) JSON(v interface{}) *ResponseBuilder {
	b.body = v
	return b
}

// Write sends the built response. A nil body writes no content.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if len(b.triggers) > 0 {
		if triggerJSON, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	if b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}

	payload, err := json.Marshal(b.body)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to encode response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(payload)
	_, _ = w.Write([]byte("\n"))
}

type errorBody struct {
	Error string `json:"error"`
}

// ErrorResponse creates a standard {"error": message} response.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return NewResponse().Status(statusCode).JSON(errorBody{Error: message})
}

func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func UnprocessableEntityError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func InternalServerError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// APIError maps a backend client error onto a response. Authorization
// failures keep their 401 so the browser can send the user to sign in;
// everything the backend failed at is a 502.
func APIError(err error) *ResponseBuilder {
	msg := expenseapi.UserMessage(err)
	switch {
	case isInvalidInput(err):
		return UnprocessableEntityError(err.Error())
	case expenseapi.IsAuth(err):
		return ErrorResponse(http.StatusUnauthorized, msg)
	case expenseapi.IsNotFound(err):
		return NotFoundError(msg)
	default:
		return ErrorResponse(http.StatusBadGateway, msg)
	}
}
