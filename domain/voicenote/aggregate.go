package voicenote

import (
	"time"

	"voicenotes/domain/shared"
)

// VoiceNote is the aggregate root of the voice note subdomain. It owns the
// processing state machine:
//
//	Pending -> Processing -> {Completed, Failed}
//	Failed -> Processing (retry)
//	Completed -> Pending (reprocess, version bump)
//
// All fields are private; mutation goes through the methods below, each of
// which validates the transition and records the matching domain event.
// The aggregate never talks to the event store itself: events are buffered
// and drained by the caller via PullEvents after persisting.
//
// A VoiceNote is not safe for concurrent use. It is owned by the single
// orchestration call operating on it.
type VoiceNote struct {
	id                  NoteID
	userID              string
	sessionID           string
	title               string
	audioRef            string
	fileSizeBytes       int64
	mimeType            string
	language            Language
	status              Status
	tags                []string
	errorMessage        string
	transcriptionPrompt string
	summaryPrompt       string
	transcription       *Transcription
	summary             *Summary
	createdAt           time.Time
	updatedAt           time.Time
	version             int

	events []shared.DomainEvent
}

// CreateParams carries everything needed to mint a new note. Exactly one of
// UserID and SessionID identifies the owner: UserID for authenticated
// uploads, SessionID for anonymous ones.
type CreateParams struct {
	UserID              string
	SessionID           string
	Title               string
	AudioRef            string
	FileName            string
	FileSizeBytes       int64
	MimeType            string
	Language            Language
	Tags                []string
	TranscriptionPrompt string
	SummaryPrompt       string
}

// New creates a voice note in Pending status and records the upload event.
// This is the only way to bring a new note into existence.
func New(params CreateParams) (*VoiceNote, error) {
	if params.Title == "" {
		return nil, shared.NewValidationError("voice_note", "title", "title cannot be empty")
	}
	if params.AudioRef == "" {
		return nil, shared.NewValidationError("voice_note", "audio_ref", "audio reference cannot be empty")
	}
	if params.UserID == "" && params.SessionID == "" {
		return nil, shared.NewValidationError("voice_note", "owner", "either user ID or session ID is required")
	}

	id, err := NewNoteID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	note := &VoiceNote{
		id:                  id,
		userID:              params.UserID,
		sessionID:           params.SessionID,
		title:               params.Title,
		audioRef:            params.AudioRef,
		fileSizeBytes:       params.FileSizeBytes,
		mimeType:            params.MimeType,
		language:            params.Language,
		status:              StatusPending,
		tags:                append([]string(nil), params.Tags...),
		transcriptionPrompt: params.TranscriptionPrompt,
		summaryPrompt:       params.SummaryPrompt,
		createdAt:           now,
		updatedAt:           now,
		version:             1,
		events:              make([]shared.DomainEvent, 0),
	}

	note.record(NewUploadedEvent(id, UploadedPayload{
		UserID:        params.UserID,
		SessionID:     params.SessionID,
		FileName:      params.FileName,
		FileSizeBytes: params.FileSizeBytes,
		Language:      params.Language.String(),
	}))

	return note, nil
}

// ReconstructionDTO rebuilds a VoiceNote from storage. Repository layer use
// only; it bypasses creation-time validation and records no events.
type ReconstructionDTO struct {
	ID                  NoteID
	UserID              string
	SessionID           string
	Title               string
	AudioRef            string
	FileSizeBytes       int64
	MimeType            string
	Language            Language
	Status              Status
	Tags                []string
	ErrorMessage        string
	TranscriptionPrompt string
	SummaryPrompt       string
	Transcription       *Transcription
	Summary             *Summary
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Version             int
}

// RebuildFromDTO reconstructs the aggregate from persisted state.
func RebuildFromDTO(dto ReconstructionDTO) *VoiceNote {
	return &VoiceNote{
		id:                  dto.ID,
		userID:              dto.UserID,
		sessionID:           dto.SessionID,
		title:               dto.Title,
		audioRef:            dto.AudioRef,
		fileSizeBytes:       dto.FileSizeBytes,
		mimeType:            dto.MimeType,
		language:            dto.Language,
		status:              dto.Status,
		tags:                append([]string(nil), dto.Tags...),
		errorMessage:        dto.ErrorMessage,
		transcriptionPrompt: dto.TranscriptionPrompt,
		summaryPrompt:       dto.SummaryPrompt,
		transcription:       dto.Transcription,
		summary:             dto.Summary,
		createdAt:           dto.CreatedAt,
		updatedAt:           dto.UpdatedAt,
		version:             dto.Version,
	}
}

// StartProcessing moves the note into Processing. Legal only from Pending or
// Failed, which guards against double-starting a note that is mid-flight.
func (n *VoiceNote) StartProcessing() error {
	if n.status != StatusPending && n.status != StatusFailed {
		return NewInvalidTransitionError(ErrStartNotAllowed, n.status)
	}
	n.status = StatusProcessing
	n.touch()
	n.record(NewProcessingStartedEvent(n.id))
	return nil
}

// AddTranscription attaches the speech-to-text result. It does not change
// the status; reprocessing replaces any previous transcription.
func (n *VoiceNote) AddTranscription(t Transcription, model, provider string) {
	n.transcription = &t
	n.touch()
	n.record(NewTranscribedEvent(n.id, TranscribedPayload{
		TranscriptionID: n.id.String(),
		Model:           model,
		Provider:        provider,
		WordCount:       t.WordCount(),
	}))
}

// AddSummary attaches the summarization result. A summary can only exist on
// a note that already has a transcription; reprocessing replaces the current
// summary rather than accumulating them.
func (n *VoiceNote) AddSummary(s Summary, model, provider string) error {
	if n.transcription == nil {
		return NewInvalidTransitionError(ErrSummaryWithoutTranscription, n.status)
	}
	n.summary = &s
	n.touch()
	n.record(NewSummarizedEvent(n.id, SummarizedPayload{
		SummaryID:       n.id.String(),
		TranscriptionID: n.id.String(),
		Model:           model,
		Provider:        provider,
	}))
	return nil
}

// MarkAsCompleted finishes the pipeline. Legal only from Processing. Any
// stale error message from a previous failed run is cleared.
func (n *VoiceNote) MarkAsCompleted() error {
	if n.status != StatusProcessing {
		return NewInvalidTransitionError(ErrCompleteNotAllowed, n.status)
	}
	n.status = StatusCompleted
	n.errorMessage = ""
	n.touch()
	n.record(NewProcessingCompletedEvent(n.id, CompletedPayload{
		ProcessingTimeMs: time.Since(n.createdAt).Milliseconds(),
	}))
	return nil
}

// MarkAsFailed records a pipeline failure. Legal from any state. The message
// stored here is the canonical user-safe one, never raw provider output.
func (n *VoiceNote) MarkAsFailed(message string) {
	n.status = StatusFailed
	n.errorMessage = message
	n.touch()
	n.record(NewProcessingFailedEvent(n.id, FailedPayload{
		Error:    message,
		FailedAt: time.Now().UTC().Format(time.RFC3339),
	}))
}

// Reprocess resets the note to Pending for another summarization run and
// bumps the version. Illegal while the note is mid-flight.
func (n *VoiceNote) Reprocess(reason, customPrompt string) error {
	if n.status == StatusProcessing {
		return NewInvalidTransitionError(ErrReprocessWhileProcessing, n.status)
	}
	n.status = StatusPending
	n.errorMessage = ""
	n.version++
	n.touch()
	n.record(NewReprocessedEvent(n.id, ReprocessedPayload{
		Reason:       reason,
		CustomPrompt: customPrompt,
	}))
	return nil
}

// UpdateTags replaces the note's tags.
func (n *VoiceNote) UpdateTags(tags []string) {
	n.tags = append([]string(nil), tags...)
	n.touch()
}

func (n *VoiceNote) touch() {
	n.updatedAt = time.Now()
}

func (n *VoiceNote) record(event shared.DomainEvent) {
	n.events = append(n.events, event)
}

// PullEvents drains the buffered domain events.
func (n *VoiceNote) PullEvents() []shared.DomainEvent {
	events := n.events
	n.events = nil
	return events
}

func (n *VoiceNote) ID() string {
	return n.id.String()
}

func (n *VoiceNote) NoteID() NoteID              { return n.id }
func (n *VoiceNote) UserID() string              { return n.userID }
func (n *VoiceNote) SessionID() string           { return n.sessionID }
func (n *VoiceNote) Title() string               { return n.title }
func (n *VoiceNote) AudioRef() string            { return n.audioRef }
func (n *VoiceNote) FileSizeBytes() int64        { return n.fileSizeBytes }
func (n *VoiceNote) MimeType() string            { return n.mimeType }
func (n *VoiceNote) Language() Language          { return n.language }
func (n *VoiceNote) Status() Status              { return n.status }
func (n *VoiceNote) ErrorMessage() string        { return n.errorMessage }
func (n *VoiceNote) TranscriptionPrompt() string { return n.transcriptionPrompt }
func (n *VoiceNote) SummaryPrompt() string       { return n.summaryPrompt }
func (n *VoiceNote) CreatedAt() time.Time        { return n.createdAt }
func (n *VoiceNote) UpdatedAt() time.Time        { return n.updatedAt }
func (n *VoiceNote) Version() int                { return n.version }

func (n *VoiceNote) Tags() []string {
	return append([]string(nil), n.tags...)
}

// Transcription returns the attached transcription, or nil.
func (n *VoiceNote) Transcription() *Transcription {
	return n.transcription
}

// Summary returns the attached summary, or nil.
func (n *VoiceNote) Summary() *Summary {
	return n.summary
}

var _ shared.AggregateRoot = (*VoiceNote)(nil)
