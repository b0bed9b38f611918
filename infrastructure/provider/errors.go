// Package provider holds error types shared by the AI provider adapters.
package provider

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Error describes a failed call to an external AI provider. StatusCode is
// zero for transport-level failures. RetryAfter carries the server's
// Retry-After value when present.
type Error struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// RetryDelayHint reports the server-requested wait time, if any.
func (e *Error) RetryDelayHint() (time.Duration, bool) {
	if e.RetryAfter > 0 {
		return e.RetryAfter, true
	}
	return 0, false
}

// permanentError marks failures that will not succeed on retry, such as a
// response body the adapter could not make sense of.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so IsRetryable reports false for it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsRetryable reports whether a failed provider call is worth retrying.
// Rate limits, server errors and transport failures are retryable; other
// client errors and permanent failures are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var perm *permanentError
	if errors.As(err, &perm) {
		return false
	}
	var provErr *Error
	if errors.As(err, &provErr) {
		if provErr.StatusCode == 0 {
			return true
		}
		if provErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
		if provErr.StatusCode >= 500 {
			return true
		}
		return false
	}
	// Unclassified errors are treated as transient transport failures.
	return true
}
