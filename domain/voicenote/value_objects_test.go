package voicenote

import (
	"errors"
	"testing"

	"voicenotes/domain/shared"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		code    string
		want    Language
		wantErr bool
	}{
		{code: "en", want: LanguageEnglish},
		{code: "EN", want: LanguageEnglish},
		{code: "eng", want: LanguageEnglish},
		{code: "English", want: LanguageEnglish},
		{code: "pl", want: LanguagePolish},
		{code: "pol", want: LanguagePolish},
		{code: "polish", want: LanguagePolish},
		{code: " pl ", want: LanguagePolish},
		{code: "de", wantErr: true},
		{code: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := ParseLanguage(tt.code)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected validation error for %q, got %v", tt.code, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLanguage(%q) failed: %v", tt.code, err)
			}
			if got != tt.want {
				t.Errorf("ParseLanguage(%q) = %s, want %s", tt.code, got, tt.want)
			}
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	if StatusPending.IsTerminal() || StatusProcessing.IsTerminal() {
		t.Error("pending and processing are not terminal")
	}
	if !StatusCompleted.IsTerminal() || !StatusFailed.IsTerminal() {
		t.Error("completed and failed are terminal")
	}
}

func TestParseStatusRejectsUnknown(t *testing.T) {
	if _, err := ParseStatus("archived"); err == nil {
		t.Error("expected error for unknown status")
	}
	got, err := ParseStatus("processing")
	if err != nil {
		t.Fatalf("ParseStatus failed: %v", err)
	}
	if got != StatusProcessing {
		t.Errorf("got %s, want processing", got)
	}
}

func TestNewTranscriptionValidation(t *testing.T) {
	if _, err := NewTranscription("", LanguageEnglish, 10, 0.9); err == nil {
		t.Error("expected error for empty text")
	}
	if _, err := NewTranscription("hi", LanguageEnglish, 0, 0.9); err == nil {
		t.Error("expected error for zero duration")
	}
	if _, err := NewTranscription("hi", LanguageEnglish, 10, 1.5); err == nil {
		t.Error("expected error for confidence > 1")
	}

	tr, err := NewTranscription("one two  three", LanguageEnglish, 10, 0.9)
	if err != nil {
		t.Fatalf("NewTranscription failed: %v", err)
	}
	if tr.WordCount() != 3 {
		t.Errorf("expected word count 3, got %d", tr.WordCount())
	}
}

func TestNewSummaryValidation(t *testing.T) {
	if _, err := NewSummary("", []string{"a"}, nil, LanguageEnglish); err == nil {
		t.Error("expected error for empty summary text")
	}
	if _, err := NewSummary("recap", nil, nil, LanguageEnglish); err == nil {
		t.Error("expected error for empty key points")
	}

	s, err := NewSummary("recap", []string{"a"}, []string{"do x"}, LanguageEnglish)
	if err != nil {
		t.Fatalf("NewSummary failed: %v", err)
	}

	// Returned slices are copies; mutating them must not leak back.
	s.KeyPoints()[0] = "mutated"
	if s.KeyPoints()[0] != "a" {
		t.Error("KeyPoints must return a defensive copy")
	}
}

func TestParseNoteID(t *testing.T) {
	if _, err := ParseNoteID("  "); err == nil {
		t.Error("expected error for blank ID")
	}
	id, err := ParseNoteID("note-42")
	if err != nil {
		t.Fatalf("ParseNoteID failed: %v", err)
	}
	if id.String() != "note-42" {
		t.Errorf("got %s, want note-42", id)
	}
}
