// Package transcription adapts external speech-to-text services to the
// domain's Transcriber port. A Chain runs an ordered list of providers with
// per-provider retry and falls through to the next on exhausted failure.
package transcription

import (
	"context"

	"voicenotes/domain/voicenote"
)

// Provider is one speech-to-text backend. Transcribe makes exactly one
// attempt; retry and fallback are the Chain's job.
type Provider interface {
	Name() string
	Model() string
	Transcribe(ctx context.Context, audio []byte, fileName string, language voicenote.Language, opts voicenote.TranscribeOptions) (*voicenote.TranscriptionResult, error)
}
