package voicenote

import (
	"time"

	"voicenotes/domain/shared"

	"github.com/google/uuid"
)

// Event type names as recorded in the event log.
const (
	EventUploaded            = "VoiceNoteUploaded"
	EventProcessingStarted   = "VoiceNoteProcessingStarted"
	EventTranscribed         = "VoiceNoteTranscribed"
	EventSummarized          = "VoiceNoteSummarized"
	EventProcessingCompleted = "VoiceNoteProcessingCompleted"
	EventProcessingFailed    = "VoiceNoteProcessingFailed"
	EventReprocessed         = "VoiceNoteReprocessed"
)

// baseEvent carries the fields every voice note event shares.
type baseEvent struct {
	eventID     string
	aggregateID string
	occurredOn  time.Time
}

func newBaseEvent(aggregateID NoteID) baseEvent {
	return baseEvent{
		eventID:     uuid.New().String(),
		aggregateID: aggregateID.String(),
		occurredOn:  time.Now(),
	}
}

func (e baseEvent) EventID() string        { return e.eventID }
func (e baseEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e baseEvent) GetAggregateID() string { return e.aggregateID }

// UploadedPayload records the upload facts of a new note.
type UploadedPayload struct {
	UserID        string `json:"userId,omitempty"`
	SessionID     string `json:"sessionId,omitempty"`
	FileName      string `json:"fileName"`
	FileSizeBytes int64  `json:"fileSizeBytes"`
	Language      string `json:"language"`
}

// UploadedEvent - a new voice note entered the system.
type UploadedEvent struct {
	baseEvent
	payload UploadedPayload
}

func NewUploadedEvent(id NoteID, payload UploadedPayload) *UploadedEvent {
	return &UploadedEvent{baseEvent: newBaseEvent(id), payload: payload}
}

func (e *UploadedEvent) EventName() string        { return EventUploaded }
func (e *UploadedEvent) EventPayload() any        { return e.payload }
func (e *UploadedEvent) Payload() UploadedPayload { return e.payload }

// ProcessingStartedEvent - the pipeline began working on the note.
type ProcessingStartedEvent struct {
	baseEvent
}

func NewProcessingStartedEvent(id NoteID) *ProcessingStartedEvent {
	return &ProcessingStartedEvent{baseEvent: newBaseEvent(id)}
}

func (e *ProcessingStartedEvent) EventName() string { return EventProcessingStarted }
func (e *ProcessingStartedEvent) EventPayload() any { return struct{}{} }

// TranscribedPayload records which model produced the transcript.
type TranscribedPayload struct {
	TranscriptionID string `json:"transcriptionId"`
	Model           string `json:"model"`
	Provider        string `json:"provider"`
	WordCount       int    `json:"wordCount"`
}

// TranscribedEvent - the speech-to-text stage succeeded.
type TranscribedEvent struct {
	baseEvent
	payload TranscribedPayload
}

func NewTranscribedEvent(id NoteID, payload TranscribedPayload) *TranscribedEvent {
	return &TranscribedEvent{baseEvent: newBaseEvent(id), payload: payload}
}

func (e *TranscribedEvent) EventName() string           { return EventTranscribed }
func (e *TranscribedEvent) EventPayload() any           { return e.payload }
func (e *TranscribedEvent) Payload() TranscribedPayload { return e.payload }

// SummarizedPayload records which model produced the summary.
type SummarizedPayload struct {
	SummaryID       string `json:"summaryId"`
	TranscriptionID string `json:"transcriptionId"`
	Model           string `json:"model"`
	Provider        string `json:"provider"`
}

// SummarizedEvent - the summarization stage succeeded.
type SummarizedEvent struct {
	baseEvent
	payload SummarizedPayload
}

func NewSummarizedEvent(id NoteID, payload SummarizedPayload) *SummarizedEvent {
	return &SummarizedEvent{baseEvent: newBaseEvent(id), payload: payload}
}

func (e *SummarizedEvent) EventName() string          { return EventSummarized }
func (e *SummarizedEvent) EventPayload() any          { return e.payload }
func (e *SummarizedEvent) Payload() SummarizedPayload { return e.payload }

// CompletedPayload records how long the full pipeline took.
type CompletedPayload struct {
	ProcessingTimeMs int64 `json:"processingTimeMs"`
}

// ProcessingCompletedEvent - the pipeline finished successfully.
type ProcessingCompletedEvent struct {
	baseEvent
	payload CompletedPayload
}

func NewProcessingCompletedEvent(id NoteID, payload CompletedPayload) *ProcessingCompletedEvent {
	return &ProcessingCompletedEvent{baseEvent: newBaseEvent(id), payload: payload}
}

func (e *ProcessingCompletedEvent) EventName() string         { return EventProcessingCompleted }
func (e *ProcessingCompletedEvent) EventPayload() any         { return e.payload }
func (e *ProcessingCompletedEvent) Payload() CompletedPayload { return e.payload }

// FailedPayload carries the canonical failure message only; real provider
// errors are logged server-side and never recorded here.
type FailedPayload struct {
	Error    string `json:"error"`
	FailedAt string `json:"failedAt"`
}

// ProcessingFailedEvent - the pipeline failed at some stage.
type ProcessingFailedEvent struct {
	baseEvent
	payload FailedPayload
}

func NewProcessingFailedEvent(id NoteID, payload FailedPayload) *ProcessingFailedEvent {
	return &ProcessingFailedEvent{baseEvent: newBaseEvent(id), payload: payload}
}

func (e *ProcessingFailedEvent) EventName() string      { return EventProcessingFailed }
func (e *ProcessingFailedEvent) EventPayload() any      { return e.payload }
func (e *ProcessingFailedEvent) Payload() FailedPayload { return e.payload }

// ReprocessedPayload records why a note was reset for another run.
type ReprocessedPayload struct {
	Reason       string `json:"reason"`
	CustomPrompt string `json:"customPrompt,omitempty"`
}

// ReprocessedEvent - the note was reset to run summarization again.
type ReprocessedEvent struct {
	baseEvent
	payload ReprocessedPayload
}

func NewReprocessedEvent(id NoteID, payload ReprocessedPayload) *ReprocessedEvent {
	return &ReprocessedEvent{baseEvent: newBaseEvent(id), payload: payload}
}

func (e *ReprocessedEvent) EventName() string           { return EventReprocessed }
func (e *ReprocessedEvent) EventPayload() any           { return e.payload }
func (e *ReprocessedEvent) Payload() ReprocessedPayload { return e.payload }

// Compile-time checks: every event satisfies shared.DomainEvent.
var (
	_ shared.DomainEvent = (*UploadedEvent)(nil)
	_ shared.DomainEvent = (*ProcessingStartedEvent)(nil)
	_ shared.DomainEvent = (*TranscribedEvent)(nil)
	_ shared.DomainEvent = (*SummarizedEvent)(nil)
	_ shared.DomainEvent = (*ProcessingCompletedEvent)(nil)
	_ shared.DomainEvent = (*ProcessingFailedEvent)(nil)
	_ shared.DomainEvent = (*ReprocessedEvent)(nil)
)
