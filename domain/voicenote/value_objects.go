package voicenote

import (
	"fmt"
	"strings"

	"voicenotes/domain/shared"

	"github.com/google/uuid"
)

// NoteID is the opaque identifier of a voice note. Equality is by value.
type NoteID string

// NewNoteID generates a fresh identifier.
func NewNoteID() (NoteID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate voice note ID: %w", err)
	}
	return NoteID(id.String()), nil
}

// ParseNoteID validates an externally supplied identifier.
func ParseNoteID(value string) (NoteID, error) {
	if strings.TrimSpace(value) == "" {
		return "", shared.NewValidationError("voice_note", "id", "voice note ID cannot be empty")
	}
	return NoteID(value), nil
}

func (id NoteID) String() string {
	return string(id)
}

// Language is a closed enumeration of supported languages.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguagePolish  Language = "pl"
)

// ParseLanguage normalizes free-form language codes. Unknown codes are an
// error, never a silent default.
func ParseLanguage(code string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "en", "eng", "english":
		return LanguageEnglish, nil
	case "pl", "pol", "polish":
		return LanguagePolish, nil
	default:
		return "", shared.NewValidationError("voice_note", "language", "unsupported language code: "+code)
	}
}

// Name returns the human-readable language name.
func (l Language) Name() string {
	switch l {
	case LanguageEnglish:
		return "English"
	case LanguagePolish:
		return "Polish"
	default:
		return string(l)
	}
}

func (l Language) String() string {
	return string(l)
}

// Status is the processing status of a voice note. Transitions are validated
// by the aggregate; the status is never set directly from outside.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ParseStatus validates a status string loaded from storage.
func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return Status(value), nil
	default:
		return "", shared.NewValidationError("voice_note", "status", "invalid processing status: "+value)
	}
}

func (s Status) IsPending() bool    { return s == StatusPending }
func (s Status) IsProcessing() bool { return s == StatusProcessing }
func (s Status) IsCompleted() bool  { return s == StatusCompleted }
func (s Status) IsFailed() bool     { return s == StatusFailed }

// IsTerminal reports whether the status is an end state of the pipeline.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func (s Status) String() string {
	return string(s)
}
