package voicenote

import (
	"context"
	"strings"

	"voicenotes/domain/shared"
	"voicenotes/domain/voicenote"
)

// Service Voice note application service - coordinates upload, queries and
// the processing entry points.
type Service struct {
	repo         voicenote.Repository
	events       voicenote.EventStore
	audio        voicenote.AudioStore
	orchestrator *ProcessingOrchestrator

	maxFileSizeBytes int64
	allowedMimeTypes map[string]struct{}
}

// NewService Create voice note application service
func NewService(
	repo voicenote.Repository,
	events voicenote.EventStore,
	audio voicenote.AudioStore,
	orchestrator *ProcessingOrchestrator,
	maxFileSizeBytes int64,
	allowedMimeTypes []string,
) *Service {
	allowed := make(map[string]struct{}, len(allowedMimeTypes))
	for _, m := range allowedMimeTypes {
		allowed[strings.ToLower(m)] = struct{}{}
	}
	return &Service{
		repo:             repo,
		events:           events,
		audio:            audio,
		orchestrator:     orchestrator,
		maxFileSizeBytes: maxFileSizeBytes,
		allowedMimeTypes: allowed,
	}
}

// Upload stores the audio blob and creates the note in Pending status.
// Processing is a separate, explicit step.
func (s *Service) Upload(ctx context.Context, cmd UploadCommand) (*VoiceNoteResponse, error) {
	mimeType := strings.ToLower(strings.TrimSpace(cmd.MimeType))
	if _, ok := s.allowedMimeTypes[mimeType]; !ok {
		return nil, voicenote.ErrUnsupportedMimeType
	}
	if len(cmd.Data) == 0 {
		return nil, shared.NewValidationError("voice_note", "file", "audio file cannot be empty")
	}
	if s.maxFileSizeBytes > 0 && int64(len(cmd.Data)) > s.maxFileSizeBytes {
		return nil, shared.NewValidationError("voice_note", "file", "audio file exceeds the size limit")
	}

	language := voicenote.LanguageEnglish
	if cmd.Language != "" {
		parsed, err := voicenote.ParseLanguage(cmd.Language)
		if err != nil {
			return nil, err
		}
		language = parsed
	}

	audioRef, err := s.audio.Save(ctx, cmd.FileName, cmd.Data)
	if err != nil {
		return nil, err
	}

	note, err := voicenote.New(voicenote.CreateParams{
		UserID:              cmd.UserID,
		SessionID:           cmd.SessionID,
		Title:               cmd.Title,
		AudioRef:            audioRef,
		FileName:            cmd.FileName,
		FileSizeBytes:       int64(len(cmd.Data)),
		MimeType:            mimeType,
		Language:            language,
		Tags:                cmd.Tags,
		TranscriptionPrompt: cmd.TranscriptionPrompt,
		SummaryPrompt:       cmd.SummaryPrompt,
	})
	if err != nil {
		// The blob is orphaned otherwise; the note was never created.
		_ = s.audio.Delete(ctx, audioRef)
		return nil, err
	}

	if err := s.orchestrator.persist(ctx, note); err != nil {
		return nil, err
	}
	return toVoiceNoteResponse(note), nil
}

// ProcessByID runs the full pipeline on a pending or failed note. A
// non-empty languageHint overrides the note's stored language for
// transcription.
func (s *Service) ProcessByID(ctx context.Context, id string, cmd ProcessCommand) (*VoiceNoteResponse, error) {
	note, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	var languageHint voicenote.Language
	if cmd.Language != "" {
		languageHint, err = voicenote.ParseLanguage(cmd.Language)
		if err != nil {
			return nil, err
		}
	}
	// Advisory: the aggregate rejects the transition anyway, but this gives
	// callers a distinct error instead of a generic transition failure.
	if note.Status().IsProcessing() {
		return nil, voicenote.ErrAlreadyProcessing
	}

	processed, err := s.orchestrator.ProcessVoiceNote(ctx, note, languageHint)
	if err != nil {
		return nil, err
	}
	return toVoiceNoteResponse(processed), nil
}

// ReprocessByID re-summarizes a completed or failed note, reusing its
// transcription.
func (s *Service) ReprocessByID(ctx context.Context, id string, cmd ReprocessCommand) (*VoiceNoteResponse, error) {
	note, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if note.Status().IsProcessing() {
		return nil, voicenote.ErrAlreadyProcessing
	}

	processed, err := s.orchestrator.ReprocessVoiceNote(ctx, note, cmd.Reason, cmd.CustomPrompt)
	if err != nil {
		return nil, err
	}
	return toVoiceNoteResponse(processed), nil
}

// Get Get voice note by id
func (s *Service) Get(ctx context.Context, id string) (*VoiceNoteResponse, error) {
	note, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toVoiceNoteResponse(note), nil
}

// ListByUser Get all voice notes for a user
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*VoiceNoteResponse, error) {
	notes, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	responses := make([]*VoiceNoteResponse, len(notes))
	for i, n := range notes {
		responses[i] = toVoiceNoteResponse(n)
	}
	return responses, nil
}

// Events returns the append-only event log of one note, oldest first.
func (s *Service) Events(ctx context.Context, id string) ([]*EventResponse, error) {
	noteID, err := voicenote.ParseNoteID(id)
	if err != nil {
		return nil, err
	}
	stored, err := s.events.EventsFor(ctx, noteID)
	if err != nil {
		return nil, err
	}
	responses := make([]*EventResponse, len(stored))
	for i, ev := range stored {
		responses[i] = &EventResponse{
			EventID:    ev.EventID,
			EventType:  ev.EventType,
			Payload:    ev.Payload,
			OccurredAt: ev.OccurredAt,
		}
	}
	return responses, nil
}

// UpdateTags replaces the tags on a note.
func (s *Service) UpdateTags(ctx context.Context, id string, tags []string) (*VoiceNoteResponse, error) {
	note, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	note.UpdateTags(cleaned)
	if err := s.repo.Save(ctx, note); err != nil {
		return nil, err
	}
	return toVoiceNoteResponse(note), nil
}

// Delete removes a note and its audio blob. The event log is retained.
func (s *Service) Delete(ctx context.Context, id string) error {
	note, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, note.NoteID()); err != nil {
		return err
	}
	if err := s.audio.Delete(ctx, note.AudioRef()); err != nil {
		// The note is gone; a stranded blob is not worth failing the request.
		return nil
	}
	return nil
}

func (s *Service) find(ctx context.Context, id string) (*voicenote.VoiceNote, error) {
	noteID, err := voicenote.ParseNoteID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, noteID)
}
