package transcription

import (
	"bytes"
	"context"
	"errors"
	"math"

	openai "github.com/sashabaranov/go-openai"

	"voicenotes/domain/voicenote"
	"voicenotes/infrastructure/provider"
)

// OpenAIProvider transcribes audio through the OpenAI audio API (Whisper
// and its successors).
type OpenAIProvider struct {
	client *openai.Client
	name   string
	model  string
}

// NewOpenAIProvider builds a provider against the given endpoint. baseURL
// may be empty for the default OpenAI endpoint.
func NewOpenAIProvider(apiKey, baseURL, model string) *OpenAIProvider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		name:   "openai",
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string { return p.name }

func (p *OpenAIProvider) Model() string { return p.model }

func (p *OpenAIProvider) Transcribe(ctx context.Context, audio []byte, fileName string, language voicenote.Language, opts voicenote.TranscribeOptions) (*voicenote.TranscriptionResult, error) {
	req := openai.AudioRequest{
		Model:       p.model,
		FilePath:    fileName,
		Reader:      bytes.NewReader(audio),
		Language:    language.String(),
		Prompt:      opts.Prompt,
		Temperature: opts.Temperature,
		Format:      openai.AudioResponseFormatVerboseJSON,
	}

	resp, err := p.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, p.wrapError(err)
	}

	lang := language
	if parsed, err := voicenote.ParseLanguage(resp.Language); err == nil {
		lang = parsed
	}

	logprobs := make([]float64, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		logprobs = append(logprobs, seg.AvgLogprob)
	}

	return &voicenote.TranscriptionResult{
		Text:       resp.Text,
		Language:   lang,
		Duration:   resp.Duration,
		Confidence: confidenceFromLogprobs(logprobs),
		Model:      p.model,
		Provider:   p.name,
	}, nil
}

func (p *OpenAIProvider) wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &provider.Error{
			Provider:   p.name,
			StatusCode: apiErr.HTTPStatusCode,
			Err:        err,
		}
	}
	return &provider.Error{Provider: p.name, Err: err}
}

// defaultSegmentConfidence stands in for segments without a usable logprob.
const defaultSegmentConfidence = 0.95

// confidenceFromLogprobs converts per-segment average logprobs into a single
// confidence score: the mean of exp(logprob) across segments, where a zero
// (missing) logprob counts as the default. The mean is clamped to 1.0.
// An empty list yields the default.
func confidenceFromLogprobs(logprobs []float64) float64 {
	if len(logprobs) == 0 {
		return defaultSegmentConfidence
	}
	var sum float64
	for _, lp := range logprobs {
		if lp == 0 {
			sum += defaultSegmentConfidence
			continue
		}
		sum += math.Exp(lp)
	}
	mean := sum / float64(len(logprobs))
	if mean > 1.0 {
		mean = 1.0
	}
	return mean
}
