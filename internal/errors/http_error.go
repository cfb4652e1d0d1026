package errors

import "net/http"

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Helpers for the error classes the booking flow distinguishes. Slot
// conflicts are recoverable for the caller (re-query and pick again), bad
// input is theirs to fix, store failures stay opaque.
var (
	ErrInvalidInput    = func(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }
	ErrSlotUnavailable = func() *HTTPError { return NewHTTPError(http.StatusConflict, "This slot is no longer available") }
	ErrNotFound        = func(msg string) *HTTPError { return NewHTTPError(http.StatusNotFound, msg) }
	ErrUnauthorized    = func(msg string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, msg) }
	ErrInternal        = func() *HTTPError { return NewHTTPError(http.StatusInternalServerError, "Internal server error") }
)
