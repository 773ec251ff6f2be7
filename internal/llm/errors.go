package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// CompletionError is a failure reported by the completion service.
// Transient marks rate limits, timeouts, and server-side errors worth
// retrying; authentication and quota failures are not.
type CompletionError struct {
	Status    int
	Message   string
	Transient bool
	Cause     error
}

func (e *CompletionError) Error() string {
	kind := "completion service error"
	if e.Transient {
		kind = "transient completion service error"
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", kind, e.Message)
}

func (e *CompletionError) Unwrap() error {
	return e.Cause
}

// wrapAPIError converts a provider error into a CompletionError with its
// retry class.
func wrapAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &CompletionError{
			Status:    apiErr.Code,
			Message:   apiErr.Message,
			Transient: transientStatus(apiErr.Code),
			Cause:     err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &CompletionError{Message: "request timed out", Transient: true, Cause: err}
	}
	return &CompletionError{Message: err.Error(), Cause: err}
}

func transientStatus(code int) bool {
	switch code {
	case 408, 429, 500, 502, 503, 504:
		return true
	}
	return false
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	var ce *CompletionError
	if errors.As(err, &ce) {
		return ce.Transient
	}
	return errors.Is(err, context.DeadlineExceeded)
}
