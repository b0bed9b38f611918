/*
Package voicenote - voice note subdomain.

Error design follows the shared layer: sentinel errors for errors.Is()
checks, constructors that capture the stack at the point of creation, and no
transport-layer concepts.
*/
package voicenote

import (
	"errors"

	"voicenotes/domain/shared"
)

var (
	// ErrNoteNotFound - voice note does not exist.
	ErrNoteNotFound = errors.New("voice note not found")

	// ErrConcurrentModification - the note was modified by another
	// transaction. Callers should reload and retry.
	ErrConcurrentModification = errors.New("voice note was modified by another transaction, please retry")

	// ErrStartNotAllowed - processing may only start from Pending or Failed.
	ErrStartNotAllowed = errors.New("can only start processing for pending or failed voice notes")

	// ErrCompleteNotAllowed - completion is only legal from Processing.
	ErrCompleteNotAllowed = errors.New("can only mark as completed from processing status")

	// ErrReprocessWhileProcessing - a note cannot be reset mid-flight.
	ErrReprocessWhileProcessing = errors.New("cannot reprocess while already processing")

	// ErrSummaryWithoutTranscription - a summary requires a transcription.
	ErrSummaryWithoutTranscription = errors.New("cannot add summary without transcription")

	// ErrAlreadyProcessing - advisory guard against double-starting a note.
	ErrAlreadyProcessing = errors.New("voice note is already being processed")

	// ErrUnsupportedMimeType - the uploaded file is not a supported audio type.
	ErrUnsupportedMimeType = errors.New("unsupported audio mime type")
)

// NewNoteNotFoundError creates a not-found error with stack, supporting both
// errors.Is(err, ErrNoteNotFound) and errors.Is(err, shared.ErrNotFound).
func NewNoteNotFoundError(id NoteID) error {
	return &noteError{
		sentinel: ErrNoteNotFound,
		message:  "voice note not found: " + id.String(),
		stack:    shared.CaptureStack(3),
	}
}

// NewConcurrentModificationError creates an optimistic-lock conflict error.
func NewConcurrentModificationError(id NoteID) error {
	return &noteError{
		sentinel: ErrConcurrentModification,
		message:  "voice note " + id.String() + " was modified by another transaction, please retry",
		stack:    shared.CaptureStack(3),
	}
}

// NewInvalidTransitionError describes an illegal state-machine transition.
func NewInvalidTransitionError(sentinel error, from Status) error {
	return &noteError{
		sentinel: sentinel,
		message:  sentinel.Error() + " (current status: " + from.String() + ")",
		stack:    shared.CaptureStack(3),
	}
}

// noteError implements error, Unwrap and shared.Stacker.
type noteError struct {
	sentinel error
	message  string
	stack    []uintptr
}

func (e *noteError) Error() string {
	return e.message
}

func (e *noteError) Unwrap() error {
	return e.sentinel
}

func (e *noteError) Stack() []string {
	return shared.FormatStack(e.stack)
}
