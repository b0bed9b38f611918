package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"voicenotes/domain/voicenote"
	"voicenotes/infrastructure/provider"
)

const defaultOpenRouterURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider transcribes audio through OpenRouter's OpenAI-compatible
// audio endpoint. It speaks HTTP directly so rate-limit responses can expose
// their Retry-After header to the retry policy.
type OpenRouterProvider struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	name       string
	model      string
}

func NewOpenRouterProvider(apiKey, baseURL, model string, timeout time.Duration) *OpenRouterProvider {
	if baseURL == "" {
		baseURL = defaultOpenRouterURL
	}
	return &OpenRouterProvider{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		name:       "openrouter",
		model:      qualifyModel(model),
	}
}

func (p *OpenRouterProvider) Name() string { return p.name }

func (p *OpenRouterProvider) Model() string { return p.model }

// qualifyModel prefixes bare model names with the openai namespace that
// OpenRouter expects.
func qualifyModel(model string) string {
	if strings.Contains(model, "/") {
		return model
	}
	return "openai/" + model
}

type openRouterSegment struct {
	AvgLogprob float64 `json:"avg_logprob"`
}

type openRouterResponse struct {
	Text     string              `json:"text"`
	Language string              `json:"language"`
	Duration float64             `json:"duration"`
	Segments []openRouterSegment `json:"segments"`
}

func (p *OpenRouterProvider) Transcribe(ctx context.Context, audio []byte, fileName string, language voicenote.Language, opts voicenote.TranscribeOptions) (*voicenote.TranscriptionResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, &provider.Error{Provider: p.name, Err: err}
	}
	if _, err := part.Write(audio); err != nil {
		return nil, &provider.Error{Provider: p.name, Err: err}
	}
	_ = writer.WriteField("model", p.model)
	_ = writer.WriteField("language", language.String())
	_ = writer.WriteField("response_format", "verbose_json")
	if opts.Prompt != "" {
		_ = writer.WriteField("prompt", opts.Prompt)
	}
	if opts.Temperature > 0 {
		_ = writer.WriteField("temperature", strconv.FormatFloat(float64(opts.Temperature), 'f', -1, 32))
	}
	if err := writer.Close(); err != nil {
		return nil, &provider.Error{Provider: p.name, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return nil, &provider.Error{Provider: p.name, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("HTTP-Referer", "https://voicenotes.local")
	req.Header.Set("X-Title", "voicenotes")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &provider.Error{Provider: p.name, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.Error{Provider: p.name, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &provider.Error{
			Provider:   p.name,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("transcription request failed: %s", strings.TrimSpace(string(raw))),
		}
	}

	var parsed openRouterResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, provider.Permanent(&provider.Error{
			Provider: p.name,
			Err:      fmt.Errorf("decode transcription response: %w", err),
		})
	}

	lang := language
	if l, err := voicenote.ParseLanguage(parsed.Language); err == nil {
		lang = l
	}

	logprobs := make([]float64, 0, len(parsed.Segments))
	for _, seg := range parsed.Segments {
		logprobs = append(logprobs, seg.AvgLogprob)
	}

	return &voicenote.TranscriptionResult{
		Text:       parsed.Text,
		Language:   lang,
		Duration:   parsed.Duration,
		Confidence: confidenceFromLogprobs(logprobs),
		Model:      p.model,
		Provider:   p.name,
	}, nil
}

// parseRetryAfter handles both delay-seconds and HTTP-date forms.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
