/*
Package shared - domain-layer building blocks used by every subdomain.

Error design:
1. Sentinel errors support type-safe errors.Is() checks.
2. DomainError captures the stack at creation time but defers formatting
   until a log line actually needs it.
3. Domain errors carry no transport concepts (HTTP status codes live in the
   API layer only).
4. Standard library errors only; the domain layer stays dependency-free.
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

var (
	// ErrNotFound - the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict - concurrent modification or uniqueness conflict.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput - validation of caller-supplied data failed.
	ErrInvalidInput = errors.New("invalid input")
)

// DomainError is a structured error carrying business context and the stack
// of the point where it was created.
type DomainError struct {
	// Err is the underlying sentinel, for errors.Is().
	Err error

	// Entity names the aggregate or value object involved.
	Entity string

	// Message is the human-readable description.
	Message string

	// Field optionally names the offending field for validation errors.
	Field string

	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Stack formats the captured frames on demand.
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// CaptureStack records the current call stack. skip is the number of frames
// to drop (typically 3: Callers, CaptureStack, the NewXxxError constructor).
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack renders captured frames, filtering runtime internals and
// keeping at most 10 frames.
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) > 10 {
			break
		}
	}
	return result
}

// NewNotFoundError creates a "not found" domain error with stack.
func NewNotFoundError(entity string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: entity + " not found",
		stack:   CaptureStack(3),
	}
}

// NewConflictError creates a "conflict" domain error with stack.
func NewConflictError(entity, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewValidationError creates a "validation failed" domain error with stack.
func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// Stacker is implemented by errors that can report where they were created.
// The API layer uses it to attach the origin stack to error logs.
type Stacker interface {
	Stack() []string
}
