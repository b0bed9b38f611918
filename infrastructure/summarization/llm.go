// Package summarization adapts chat-completion LLMs to the domain's
// Summarizer port. Providers are asked for a JSON object, but responses are
// parsed defensively: key naming varies by model, and custom user prompts
// can produce output with no recognizable structure at all.
package summarization

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"voicenotes/domain/voicenote"
	"voicenotes/infrastructure/provider"
	"voicenotes/infrastructure/retry"
)

const defaultSystemPrompt = `You are an assistant that summarizes voice note transcriptions.
Produce a concise summary, the key points, and any action items mentioned.
Respond in the same language as the transcription.`

const jsonFormatInstruction = `Respond with a JSON object with these fields:
"summary" (string), "key_points" (array of strings), "action_items" (array of strings).`

// customPromptKeyPoint marks results produced by a free-form user prompt
// whose output did not parse as the expected structure.
const customPromptKeyPoint = "Generated with custom prompt"

// LLMSummarizer implements voicenote.Summarizer on an OpenAI-compatible
// chat completion API.
type LLMSummarizer struct {
	client       *openai.Client
	name         string
	model        string
	maxTokens    int
	temperature  float32
	systemPrompt string
	retryCfg     retry.Config
}

type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	// SystemPrompt replaces the built-in summary instruction when set.
	SystemPrompt string
	Retry        retry.Config
}

func NewLLMSummarizer(opts Options) *LLMSummarizer {
	config := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	systemPrompt := strings.TrimSpace(opts.SystemPrompt)
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	return &LLMSummarizer{
		client:       openai.NewClientWithConfig(config),
		name:         "openai",
		model:        opts.Model,
		maxTokens:    maxTokens,
		temperature:  opts.Temperature,
		systemPrompt: systemPrompt,
		retryCfg:     opts.Retry,
	}
}

var _ voicenote.Summarizer = (*LLMSummarizer)(nil)

func (s *LLMSummarizer) Summarize(ctx context.Context, text string, language voicenote.Language, opts voicenote.SummarizeOptions) (*voicenote.SummarizationResult, error) {
	customPrompt := strings.TrimSpace(opts.Prompt)
	systemPrompt := s.systemPrompt
	if customPrompt != "" {
		systemPrompt = customPrompt
	}
	systemPrompt += "\n\n" + jsonFormatInstruction

	maxTokens := s.maxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}
	temperature := s.temperature
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}

	req := openai.ChatCompletionRequest{
		Model:       s.model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	}

	var content string
	err := retry.Do(ctx, s.retryCfg, provider.IsRetryable, func(ctx context.Context) error {
		resp, err := s.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return s.wrapError(err)
		}
		if len(resp.Choices) == 0 {
			return &provider.Error{Provider: s.name, Err: errors.New("empty completion response")}
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return nil, err
	}

	result, err := parseResult(content, customPrompt != "")
	if err != nil {
		return nil, err
	}
	result.Model = s.model
	result.Provider = s.name
	return result, nil
}

func (s *LLMSummarizer) wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &provider.Error{Provider: s.name, StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	return &provider.Error{Provider: s.name, Err: err}
}

// parseResult extracts a SummarizationResult from raw model output. It
// tolerates key aliases, string-typed list fields, fenced code blocks and a
// bare JSON string. Output that cannot be interpreted at all is a permanent
// failure, unless a custom prompt was used, in which case the raw content is
// kept as the summary and marked accordingly.
func parseResult(content string, customPrompt bool) (*voicenote.SummarizationResult, error) {
	trimmed := stripCodeFence(strings.TrimSpace(content))

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
		return resultFromObject(obj), nil
	}

	// Some models return a bare JSON string instead of an object.
	var str string
	if err := json.Unmarshal([]byte(trimmed), &str); err == nil && strings.TrimSpace(str) != "" {
		return &voicenote.SummarizationResult{Summary: strings.TrimSpace(str)}, nil
	}

	if customPrompt {
		summary := strings.TrimSpace(content)
		if summary == "" {
			summary = "No summary available"
		}
		return &voicenote.SummarizationResult{
			Summary:   summary,
			KeyPoints: []string{customPromptKeyPoint},
		}, nil
	}

	return nil, provider.Permanent(fmt.Errorf("unparseable summarization response: %.80q", content))
}

func resultFromObject(obj map[string]json.RawMessage) *voicenote.SummarizationResult {
	result := &voicenote.SummarizationResult{
		Summary:     stringField(obj, "summary", "text"),
		KeyPoints:   listField(obj, "key_points", "keyPoints", "points"),
		ActionItems: listField(obj, "action_items", "actionItems"),
	}
	return result
}

func stringField(obj map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// listField reads the first present alias as a string array, falling back to
// splitting a string value on newlines.
func listField(obj map[string]json.RawMessage, keys ...string) []string {
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var items []string
		if err := json.Unmarshal(raw, &items); err == nil {
			return cleanList(items)
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return cleanList(strings.Split(s, "\n"))
		}
	}
	return nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(item), "-*• "))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
