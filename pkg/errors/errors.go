// Package errors defines application-level error codes and the mapping
// from domain errors. HTTP status mapping lives in the API layer.
package errors

import (
	"errors"
	"fmt"

	"voicenotes/domain/shared"
	"voicenotes/domain/voicenote"
)

// ErrorCode application error code
type ErrorCode string

const (
	// Generic error codes
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	CodeForbidden      ErrorCode = "FORBIDDEN"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"

	// Business error codes
	CodeNoteNotFound        ErrorCode = "NOTE_NOT_FOUND"
	CodeInvalidNoteState    ErrorCode = "INVALID_NOTE_STATE"
	CodeAlreadyProcessing   ErrorCode = "ALREADY_PROCESSING"
	CodeConcurrentModify    ErrorCode = "CONCURRENT_MODIFICATION"
	CodeUnsupportedMimeType ErrorCode = "UNSUPPORTED_MIME_TYPE"
	CodeNoTranscription     ErrorCode = "NO_TRANSCRIPTION"
)

// AppError application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new application error
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with a code and message
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequest, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// FromDomainError translates domain errors into application errors. The
// message passed through here is safe to show users; anything unrecognized
// becomes an internal error with a generic message.
func FromDomainError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, voicenote.ErrNoteNotFound):
		return Wrap(err, CodeNoteNotFound, "voice note not found")
	case errors.Is(err, voicenote.ErrConcurrentModification):
		return Wrap(err, CodeConcurrentModify, "the voice note was modified concurrently, please retry")
	case errors.Is(err, voicenote.ErrAlreadyProcessing):
		return Wrap(err, CodeAlreadyProcessing, "the voice note is already being processed")
	case errors.Is(err, voicenote.ErrUnsupportedMimeType):
		return Wrap(err, CodeUnsupportedMimeType, "unsupported audio format")
	case errors.Is(err, voicenote.ErrSummaryWithoutTranscription):
		return Wrap(err, CodeNoTranscription, "the voice note has no transcription to summarize")
	case errors.Is(err, voicenote.ErrStartNotAllowed),
		errors.Is(err, voicenote.ErrCompleteNotAllowed),
		errors.Is(err, voicenote.ErrReprocessWhileProcessing):
		return Wrap(err, CodeInvalidNoteState, err.Error())
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, "resource not found")
	case errors.Is(err, shared.ErrConflict):
		return Wrap(err, CodeConflict, "resource conflict")
	case errors.Is(err, shared.ErrInvalidInput):
		return Wrap(err, CodeValidation, userMessage(err))
	default:
		return Wrap(err, CodeInternal, "internal server error")
	}
}

// userMessage pulls the human-readable message out of a domain validation
// error, falling back to the raw error text.
func userMessage(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		return domainErr.Message
	}
	return err.Error()
}
