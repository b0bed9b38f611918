package summarization

import (
	"reflect"
	"testing"

	"voicenotes/infrastructure/provider"
)

func TestParseResultWellFormed(t *testing.T) {
	content := `{"summary":"Weekly sync notes","key_points":["Budget approved","Hiring opens"],"action_items":["Send minutes"]}`
	result, err := parseResult(content, false)
	if err != nil {
		t.Fatalf("parseResult() error = %v", err)
	}
	if result.Summary != "Weekly sync notes" {
		t.Errorf("Summary = %q", result.Summary)
	}
	if !reflect.DeepEqual(result.KeyPoints, []string{"Budget approved", "Hiring opens"}) {
		t.Errorf("KeyPoints = %v", result.KeyPoints)
	}
	if !reflect.DeepEqual(result.ActionItems, []string{"Send minutes"}) {
		t.Errorf("ActionItems = %v", result.ActionItems)
	}
}

func TestParseResultKeyAliases(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"camelCase", `{"summary":"s","keyPoints":["a","b"]}`, []string{"a", "b"}},
		{"points", `{"summary":"s","points":["a"]}`, []string{"a"}},
		{"snake_case", `{"summary":"s","key_points":["a"]}`, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseResult(tt.content, false)
			if err != nil {
				t.Fatalf("parseResult() error = %v", err)
			}
			if !reflect.DeepEqual(result.KeyPoints, tt.want) {
				t.Errorf("KeyPoints = %v, want %v", result.KeyPoints, tt.want)
			}
		})
	}
}

func TestParseResultStringListsSplitOnNewlines(t *testing.T) {
	content := `{"summary":"s","key_points":"- first point\n- second point","action_items":"call Anna\n\n"}`
	result, err := parseResult(content, false)
	if err != nil {
		t.Fatalf("parseResult() error = %v", err)
	}
	if !reflect.DeepEqual(result.KeyPoints, []string{"first point", "second point"}) {
		t.Errorf("KeyPoints = %v", result.KeyPoints)
	}
	if !reflect.DeepEqual(result.ActionItems, []string{"call Anna"}) {
		t.Errorf("ActionItems = %v", result.ActionItems)
	}
}

func TestParseResultBareJSONString(t *testing.T) {
	result, err := parseResult(`"Just a plain summary"`, false)
	if err != nil {
		t.Fatalf("parseResult() error = %v", err)
	}
	if result.Summary != "Just a plain summary" {
		t.Errorf("Summary = %q", result.Summary)
	}
	if len(result.KeyPoints) != 0 {
		t.Errorf("KeyPoints = %v, want empty", result.KeyPoints)
	}
}

func TestParseResultCodeFence(t *testing.T) {
	content := "```json\n{\"summary\":\"fenced\",\"key_points\":[\"k\"]}\n```"
	result, err := parseResult(content, false)
	if err != nil {
		t.Fatalf("parseResult() error = %v", err)
	}
	if result.Summary != "fenced" {
		t.Errorf("Summary = %q", result.Summary)
	}
}

func TestParseResultUnparseableWithoutCustomPromptIsPermanent(t *testing.T) {
	_, err := parseResult("Sure! Here is your summary: it was a great meeting.", false)
	if err == nil {
		t.Fatal("parseResult() error = nil, want permanent error")
	}
	if provider.IsRetryable(err) {
		t.Error("unparseable response should not be retryable")
	}
}

func TestParseResultUnparseableWithCustomPromptKeepsRawContent(t *testing.T) {
	raw := "A haiku about the meeting.\nBudgets bloom in spring."
	result, err := parseResult(raw, true)
	if err != nil {
		t.Fatalf("parseResult() error = %v", err)
	}
	if result.Summary != raw {
		t.Errorf("Summary = %q, want raw content", result.Summary)
	}
	if !reflect.DeepEqual(result.KeyPoints, []string{customPromptKeyPoint}) {
		t.Errorf("KeyPoints = %v", result.KeyPoints)
	}
}

func TestParseResultEmptyCustomPromptOutput(t *testing.T) {
	result, err := parseResult("   ", true)
	if err != nil {
		t.Fatalf("parseResult() error = %v", err)
	}
	if result.Summary != "No summary available" {
		t.Errorf("Summary = %q", result.Summary)
	}
}
