package voicenote

import "context"

// TranscriptionResult is what a transcription backend returns. Model and
// Provider identify which backend actually served the request (relevant when
// a fallback provider stepped in).
type TranscriptionResult struct {
	Text       string
	Language   Language
	Duration   float64
	Confidence float64
	Model      string
	Provider   string
}

// TranscribeOptions tune a single transcription call.
type TranscribeOptions struct {
	Prompt      string
	Temperature float32
}

// Transcriber is the speech-to-text capability the orchestrator depends on.
// Implementations own retry, backoff and provider fallback; the orchestrator
// only sees the final outcome.
type Transcriber interface {
	Transcribe(ctx context.Context, audioRef string, language Language, opts TranscribeOptions) (*TranscriptionResult, error)
}

// SummarizationResult is what a summarization backend returns. KeyPoints and
// ActionItems may be empty when the provider supplied none; validation of
// what constitutes an acceptable Summary belongs to the Summary value object.
type SummarizationResult struct {
	Summary     string
	KeyPoints   []string
	ActionItems []string
	Model       string
	Provider    string
}

// SummarizeOptions tune a single summarization call. Prompt overrides the
// configured system prompt when non-empty.
type SummarizeOptions struct {
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Summarizer is the text summarization capability the orchestrator depends on.
type Summarizer interface {
	Summarize(ctx context.Context, text string, language Language, opts SummarizeOptions) (*SummarizationResult, error)
}

// AudioStore abstracts raw audio blob storage. References returned by Save
// are opaque to the domain.
type AudioStore interface {
	Save(ctx context.Context, fileName string, data []byte) (string, error)
	Read(ctx context.Context, ref string) ([]byte, error)
	Delete(ctx context.Context, ref string) error
}
