// Package apperror classifies application errors so that handlers, CLI
// commands and the provider layer agree on how a failure should surface.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType is the coarse category of an AppError.
type ErrorType string

const (
	Validation      ErrorType = "VALIDATION"
	NotFound        ErrorType = "NOT_FOUND"
	Unauthorized    ErrorType = "UNAUTHORIZED"
	Forbidden       ErrorType = "FORBIDDEN"
	Conflict        ErrorType = "CONFLICT"
	ExternalService ErrorType = "EXTERNAL_SERVICE"
	RateLimited     ErrorType = "RATE_LIMITED"
	Internal        ErrorType = "INTERNAL"
)

// AppError carries a category, a client-safe message and, for upstream
// failures, the provider name and HTTP status it answered with.
type AppError struct {
	Type       ErrorType
	Message    string
	Provider   string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	msg := e.Message
	if e.Provider != "" {
		if e.StatusCode != 0 {
			msg = fmt.Sprintf("%s (%s, status %d)", msg, e.Provider, e.StatusCode)
		} else {
			msg = fmt.Sprintf("%s (%s)", msg, e.Provider)
		}
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AppError of the same Type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type && (t.Message == "" || t.Message == e.Message)
}

// New creates an AppError.
func New(t ErrorType, message string) *AppError {
	return &AppError{Type: t, Message: message}
}

// Wrap creates an AppError around err.
func Wrap(t ErrorType, message string, err error) *AppError {
	return &AppError{Type: t, Message: message, Err: err}
}

// External reports a failed call to a third-party provider. 429 responses
// are classified as RATE_LIMITED.
func External(provider string, status int, err error) *AppError {
	t := ExternalService
	if status == http.StatusTooManyRequests {
		t = RateLimited
	}
	return &AppError{
		Type:       t,
		Message:    "external service request failed",
		Provider:   provider,
		StatusCode: status,
		Err:        err,
	}
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or
// Internal when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return Internal
}

// HTTPStatus maps err to the status code a handler should answer with.
func HTTPStatus(err error) int {
	switch TypeOf(err) {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case Conflict:
		return http.StatusConflict
	case ExternalService:
		return http.StatusBadGateway
	case RateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe message for err. Errors that are not
// AppErrors are reported generically.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
