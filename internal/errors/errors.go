package errors

import (
	"net/http"

	"github.com/go-playground/validator/v10"
)

// APIError is the error type every handler and service reports through.
// Status decides the HTTP response, Message is safe to show the caller,
// Internal carries the underlying cause for logging only.
type APIError struct {
	Status   int    `json:"-"`
	Message  string `json:"error"`
	Internal error  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Internal
}

func New(status int, message string, internal error) *APIError {
	return &APIError{Status: status, Message: message, Internal: internal}
}

// Validation reports required input that is missing or malformed.
// Never retried; the caller fixes the input.
func Validation(message string, internal error) *APIError {
	return New(http.StatusUnprocessableEntity, message, internal)
}

// InvalidTransition reports an operation whose precondition the document's
// current status does not satisfy, including the double-submit case. The
// caller should refresh the document and re-evaluate.
func InvalidTransition(message string, internal error) *APIError {
	return New(http.StatusConflict, message, internal)
}

// NotFound reports a tracking code that resolves to nothing the caller may
// act on. Never retried automatically.
func NotFound(message string, internal error) *APIError {
	return New(http.StatusNotFound, message, internal)
}

// RemoteFailure reports an unreachable or misbehaving backing store.
// Safe to retry manually.
func RemoteFailure(message string, internal error) *APIError {
	return New(http.StatusBadGateway, message, internal)
}

func Unauthorized(message string, internal error) *APIError {
	return New(http.StatusUnauthorized, message, internal)
}

func Forbidden(message string, internal error) *APIError {
	return New(http.StatusForbidden, message, internal)
}

func Internal(internal error) *APIError {
	return New(http.StatusInternalServerError, "Internal server error", internal)
}

// NewValidationError wraps gin binding failures, keeping the first field
// error as the user-facing message when the validator produced one.
func NewValidationError(err error) *APIError {
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		return Validation("Invalid value for field '"+fieldErrs[0].Field()+"'", err)
	}
	return Validation("Invalid request payload", err)
}
