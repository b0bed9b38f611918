package voicenote

import (
	"strings"
	"time"

	"voicenotes/domain/shared"
)

// Transcription is the immutable result of the speech-to-text stage.
// Construction validates all fields up front; an invalid transcription never
// exists.
type Transcription struct {
	text       string
	language   Language
	duration   float64
	confidence float64
	createdAt  time.Time
}

// NewTranscription validates and builds a Transcription. Duration is in
// seconds and must be positive; confidence must be within [0, 1].
func NewTranscription(text string, language Language, duration, confidence float64) (*Transcription, error) {
	if strings.TrimSpace(text) == "" {
		return nil, shared.NewValidationError("transcription", "text", "transcription text cannot be empty")
	}
	if duration <= 0 {
		return nil, shared.NewValidationError("transcription", "duration", "duration must be positive")
	}
	if confidence < 0 || confidence > 1 {
		return nil, shared.NewValidationError("transcription", "confidence", "confidence must be between 0 and 1")
	}
	return &Transcription{
		text:       text,
		language:   language,
		duration:   duration,
		confidence: confidence,
		createdAt:  time.Now(),
	}, nil
}

// RebuildTranscription reconstructs a Transcription from storage without
// re-validating. Repository layer use only.
func RebuildTranscription(text string, language Language, duration, confidence float64, createdAt time.Time) *Transcription {
	return &Transcription{
		text:       text,
		language:   language,
		duration:   duration,
		confidence: confidence,
		createdAt:  createdAt,
	}
}

func (t Transcription) Text() string        { return t.text }
func (t Transcription) Language() Language  { return t.language }
func (t Transcription) Duration() float64   { return t.duration }
func (t Transcription) Confidence() float64 { return t.confidence }
func (t Transcription) CreatedAt() time.Time {
	return t.createdAt
}

// WordCount counts whitespace-separated words in the transcript.
func (t Transcription) WordCount() int {
	return len(strings.Fields(t.text))
}

// Summary is the immutable result of the summarization stage.
type Summary struct {
	text        string
	keyPoints   []string
	actionItems []string
	language    Language
	createdAt   time.Time
}

// NewSummary validates and builds a Summary. The summary text and key points
// are required; action items may be empty.
func NewSummary(text string, keyPoints, actionItems []string, language Language) (*Summary, error) {
	if strings.TrimSpace(text) == "" {
		return nil, shared.NewValidationError("summary", "text", "summary text cannot be empty")
	}
	if len(keyPoints) == 0 {
		return nil, shared.NewValidationError("summary", "key_points", "key points cannot be empty")
	}
	return &Summary{
		text:        text,
		keyPoints:   append([]string(nil), keyPoints...),
		actionItems: append([]string(nil), actionItems...),
		language:    language,
		createdAt:   time.Now(),
	}, nil
}

// RebuildSummary reconstructs a Summary from storage without re-validating.
// Repository layer use only.
func RebuildSummary(text string, keyPoints, actionItems []string, language Language, createdAt time.Time) *Summary {
	return &Summary{
		text:        text,
		keyPoints:   append([]string(nil), keyPoints...),
		actionItems: append([]string(nil), actionItems...),
		language:    language,
		createdAt:   createdAt,
	}
}

func (s Summary) Text() string { return s.text }

func (s Summary) KeyPoints() []string {
	return append([]string(nil), s.keyPoints...)
}

func (s Summary) ActionItems() []string {
	return append([]string(nil), s.actionItems...)
}

func (s Summary) Language() Language   { return s.language }
func (s Summary) CreatedAt() time.Time { return s.createdAt }
