// Package apierror defines the single error envelope every failed
// request is reduced to before it reaches the client.
package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Stable category names that appear in the "error" field of every
// failure response.
const (
	CodeValidation = "validation_error"
	CodeNotFound   = "not_found"
	CodeDriver     = "driver_error"
)

// Error is the uniform failure envelope. Exactly three categories exist:
// validation (400), not found (404) and driver/upstream (502). Only
// driver errors carry a correlation id, so an operator can match a
// client-visible 502 to the backend log line that produced it.
type Error struct {
	Status        int    `json:"-"`
	Code          string `json:"error"`
	Details       string `json:"details"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

func (e *Error) Error() string {
	if e.CorrelationID != "" {
		return fmt.Sprintf("%s: %s (correlation_id=%s)", e.Code, e.Details, e.CorrelationID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Details)
}

// Validation reports a defect in the client request. Never retried,
// never reaches the backing store.
func Validation(details string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Details: details,
	}
}

// NotFound reports a well-formed single-resource request that matched
// nothing.
func NotFound(details string) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Code:    CodeNotFound,
		Details: details,
	}
}

// Driver wraps a failure surfaced by the backing store or its wire
// format. The gateway did not cause it, so the status is 502 rather
// than 500, and a fresh correlation id is attached.
func Driver(err error) *Error {
	return &Error{
		Status:        http.StatusBadGateway,
		Code:          CodeDriver,
		Details:       fmt.Sprintf("mongodb error: %v", err),
		CorrelationID: uuid.NewString(),
	}
}

// From normalizes any error into the envelope. Errors that are already
// envelopes pass through untouched; everything else is treated as an
// upstream failure.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Driver(err)
}
