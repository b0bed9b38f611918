/*
Package voicenote Application Layer - Voice Note Processing Orchestration

Responsibilities of Application Layer:
1. Receive external requests (usually from Controller)
2. Call aggregate root methods to execute business operations
3. Drive the two-stage AI pipeline (transcription, then summarization)
4. Persist aggregates and append their events to the event log
5. Return results to caller

Pipeline failures of any kind funnel into a single handler: the real cause
is logged, the note is marked Failed with one user-safe message, and the
request itself succeeds. Only persistence failures surface as errors.
*/
package voicenote

import (
	"context"

	"go.uber.org/zap"

	"voicenotes/domain/shared"
	"voicenotes/domain/voicenote"
	"voicenotes/pkg/logger"
)

// CanonicalFailureMessage is the only error text ever stored on a failed
// note. Provider errors can leak API keys, internal hostnames and prompt
// contents, so the real cause goes to the log and nowhere else.
const CanonicalFailureMessage = "Processing failed due to an unexpected error. Please try again later or contact support if the issue persists."

// ProcessingOrchestrator drives a voice note through the transcription and
// summarization stages.
type ProcessingOrchestrator struct {
	repo        voicenote.Repository
	events      voicenote.EventStore
	transcriber voicenote.Transcriber
	summarizer  voicenote.Summarizer
	publisher   shared.DomainEventPublisher // optional
}

func NewProcessingOrchestrator(
	repo voicenote.Repository,
	events voicenote.EventStore,
	transcriber voicenote.Transcriber,
	summarizer voicenote.Summarizer,
	publisher shared.DomainEventPublisher,
) *ProcessingOrchestrator {
	return &ProcessingOrchestrator{
		repo:        repo,
		events:      events,
		transcriber: transcriber,
		summarizer:  summarizer,
		publisher:   publisher,
	}
}

// ProcessVoiceNote runs the full pipeline on a note. The transition into
// Processing is persisted before any provider call so concurrent requests
// observe the in-flight state. A non-empty languageHint overrides the note's
// stored language for transcription only. A pipeline failure marks the note
// Failed and returns it without error; callers distinguish outcomes by note
// status.
func (o *ProcessingOrchestrator) ProcessVoiceNote(ctx context.Context, note *voicenote.VoiceNote, languageHint voicenote.Language) (*voicenote.VoiceNote, error) {
	if err := note.StartProcessing(); err != nil {
		return nil, err
	}
	if err := o.persist(ctx, note); err != nil {
		return nil, err
	}

	transcription, result, err := o.transcribe(ctx, note, languageHint)
	if err != nil {
		return o.handleProcessingFailure(ctx, note, "transcription", err)
	}
	note.AddTranscription(*transcription, result.Model, result.Provider)
	// Each stage is durable before the next begins: a crash during
	// summarization must not lose the transcription.
	if err := o.persist(ctx, note); err != nil {
		return nil, err
	}

	if err := o.summarize(ctx, note, transcription.Text(), ""); err != nil {
		return o.handleProcessingFailure(ctx, note, "summarization", err)
	}

	if err := note.MarkAsCompleted(); err != nil {
		return o.handleProcessingFailure(ctx, note, "completion", err)
	}
	if err := o.persist(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// ReprocessVoiceNote re-runs summarization on an already transcribed note,
// optionally with a caller-supplied prompt. The existing transcription is
// reused; audio is not sent to a provider again.
func (o *ProcessingOrchestrator) ReprocessVoiceNote(ctx context.Context, note *voicenote.VoiceNote, reason, customPrompt string) (*voicenote.VoiceNote, error) {
	// Checked before any mutation so a bad request leaves the note untouched.
	if note.Transcription() == nil {
		return nil, voicenote.ErrSummaryWithoutTranscription
	}

	if err := note.Reprocess(reason, customPrompt); err != nil {
		return nil, err
	}
	if err := note.StartProcessing(); err != nil {
		return nil, err
	}
	if err := o.persist(ctx, note); err != nil {
		return nil, err
	}

	if err := o.summarize(ctx, note, note.Transcription().Text(), customPrompt); err != nil {
		return o.handleProcessingFailure(ctx, note, "summarization", err)
	}

	if err := note.MarkAsCompleted(); err != nil {
		return o.handleProcessingFailure(ctx, note, "completion", err)
	}
	if err := o.persist(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (o *ProcessingOrchestrator) transcribe(ctx context.Context, note *voicenote.VoiceNote, languageHint voicenote.Language) (*voicenote.Transcription, *voicenote.TranscriptionResult, error) {
	language := note.Language()
	if languageHint != "" {
		language = languageHint
	}
	result, err := o.transcriber.Transcribe(ctx, note.AudioRef(), language, voicenote.TranscribeOptions{
		Prompt: note.TranscriptionPrompt(),
	})
	if err != nil {
		return nil, nil, err
	}

	// Providers occasionally omit duration or confidence; substitute sane
	// values rather than failing an otherwise good transcription.
	duration := result.Duration
	if duration <= 0 {
		duration = 1
	}
	confidence := result.Confidence
	if confidence <= 0 {
		confidence = 1.0
	}

	transcription, err := voicenote.NewTranscription(result.Text, result.Language, duration, confidence)
	if err != nil {
		return nil, nil, err
	}
	return transcription, result, nil
}

func (o *ProcessingOrchestrator) summarize(ctx context.Context, note *voicenote.VoiceNote, text, customPrompt string) error {
	prompt := customPrompt
	if prompt == "" {
		prompt = note.SummaryPrompt()
	}
	result, err := o.summarizer.Summarize(ctx, text, note.Language(), voicenote.SummarizeOptions{
		Prompt: prompt,
	})
	if err != nil {
		return err
	}

	summary, err := voicenote.NewSummary(result.Summary, result.KeyPoints, result.ActionItems, note.Language())
	if err != nil {
		return err
	}
	return note.AddSummary(*summary, result.Model, result.Provider)
}

// handleProcessingFailure is the single funnel for every pipeline failure.
// The note ends up Failed with the canonical message; the caller gets the
// note back without an error unless persisting the failure itself failed.
func (o *ProcessingOrchestrator) handleProcessingFailure(ctx context.Context, note *voicenote.VoiceNote, stage string, cause error) (*voicenote.VoiceNote, error) {
	logger.Error("voice note processing failed",
		zap.String("note_id", note.ID()),
		zap.String("stage", stage),
		zap.Error(cause))

	note.MarkAsFailed(CanonicalFailureMessage)
	if err := o.persist(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// persist saves the aggregate, appends its buffered events to the event log
// and hands them to the in-process publisher. Publishing is best-effort; a
// failed handler is logged and ignored.
func (o *ProcessingOrchestrator) persist(ctx context.Context, note *voicenote.VoiceNote) error {
	if err := o.repo.Save(ctx, note); err != nil {
		return err
	}
	for _, event := range note.PullEvents() {
		if err := o.events.Append(ctx, event); err != nil {
			return err
		}
		if o.publisher != nil {
			if err := o.publisher.Publish(event); err != nil {
				logger.Warn("event handler failed",
					zap.String("event", event.EventName()),
					zap.String("note_id", note.ID()),
					zap.Error(err))
			}
		}
	}
	return nil
}
