package voicenote

import (
	"errors"
	"testing"
)

func newTestNote(t *testing.T) *VoiceNote {
	t.Helper()
	note, err := New(CreateParams{
		UserID:        "user-1",
		Title:         "standup notes",
		AudioRef:      "audio/standup.m4a",
		FileName:      "standup.m4a",
		FileSizeBytes: 2048,
		MimeType:      "audio/mp4",
		Language:      LanguageEnglish,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return note
}

func mustTranscription(t *testing.T) Transcription {
	t.Helper()
	tr, err := NewTranscription("hello world from the standup", LanguageEnglish, 12.5, 0.97)
	if err != nil {
		t.Fatalf("NewTranscription() failed: %v", err)
	}
	return *tr
}

func mustSummary(t *testing.T) Summary {
	t.Helper()
	s, err := NewSummary("short recap", []string{"point one"}, nil, LanguageEnglish)
	if err != nil {
		t.Fatalf("NewSummary() failed: %v", err)
	}
	return *s
}

func TestNewNoteStartsPendingWithUploadEvent(t *testing.T) {
	note := newTestNote(t)

	if note.Status() != StatusPending {
		t.Errorf("expected pending status, got %s", note.Status())
	}
	if note.Version() != 1 {
		t.Errorf("expected version 1, got %d", note.Version())
	}

	events := note.PullEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].EventName() != EventUploaded {
		t.Errorf("expected %s, got %s", EventUploaded, events[0].EventName())
	}
	if got := len(note.PullEvents()); got != 0 {
		t.Errorf("PullEvents should drain the buffer, got %d events on second call", got)
	}
}

func TestNewNoteRequiresOwner(t *testing.T) {
	_, err := New(CreateParams{
		Title:    "orphan",
		AudioRef: "audio/x.m4a",
		Language: LanguageEnglish,
	})
	if err == nil {
		t.Fatal("expected error for note without user or session")
	}
}

func TestStartProcessingTransitions(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, n *VoiceNote)
		wantErr bool
	}{
		{
			name:    "from pending",
			prepare: func(t *testing.T, n *VoiceNote) {},
		},
		{
			name: "from failed",
			prepare: func(t *testing.T, n *VoiceNote) {
				n.MarkAsFailed("boom")
			},
		},
		{
			name: "from processing",
			prepare: func(t *testing.T, n *VoiceNote) {
				if err := n.StartProcessing(); err != nil {
					t.Fatalf("setup: %v", err)
				}
			},
			wantErr: true,
		},
		{
			name: "from completed",
			prepare: func(t *testing.T, n *VoiceNote) {
				if err := n.StartProcessing(); err != nil {
					t.Fatalf("setup: %v", err)
				}
				if err := n.MarkAsCompleted(); err != nil {
					t.Fatalf("setup: %v", err)
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note := newTestNote(t)
			tt.prepare(t, note)

			err := note.StartProcessing()
			if tt.wantErr {
				if !errors.Is(err, ErrStartNotAllowed) {
					t.Errorf("expected ErrStartNotAllowed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("StartProcessing() failed: %v", err)
			}
			if note.Status() != StatusProcessing {
				t.Errorf("expected processing status, got %s", note.Status())
			}
		})
	}
}

func TestMarkAsCompletedOnlyFromProcessing(t *testing.T) {
	note := newTestNote(t)

	if err := note.MarkAsCompleted(); !errors.Is(err, ErrCompleteNotAllowed) {
		t.Errorf("expected ErrCompleteNotAllowed from pending, got %v", err)
	}

	if err := note.StartProcessing(); err != nil {
		t.Fatalf("StartProcessing() failed: %v", err)
	}
	if err := note.MarkAsCompleted(); err != nil {
		t.Fatalf("MarkAsCompleted() failed: %v", err)
	}
	if note.Status() != StatusCompleted {
		t.Errorf("expected completed status, got %s", note.Status())
	}
}

func TestMarkAsCompletedClearsErrorMessage(t *testing.T) {
	note := newTestNote(t)
	note.MarkAsFailed("canonical failure")
	if note.ErrorMessage() == "" {
		t.Fatal("setup: error message should be set")
	}

	if err := note.StartProcessing(); err != nil {
		t.Fatalf("StartProcessing() failed: %v", err)
	}
	note.AddTranscription(mustTranscription(t), "whisper-1", "openai")
	if err := note.AddSummary(mustSummary(t), "gpt-4o", "openai"); err != nil {
		t.Fatalf("AddSummary() failed: %v", err)
	}
	if err := note.MarkAsCompleted(); err != nil {
		t.Fatalf("MarkAsCompleted() failed: %v", err)
	}

	if note.ErrorMessage() != "" {
		t.Errorf("expected cleared error message, got %q", note.ErrorMessage())
	}
}

func TestMarkAsFailedFromAnyState(t *testing.T) {
	note := newTestNote(t)
	if err := note.StartProcessing(); err != nil {
		t.Fatalf("StartProcessing() failed: %v", err)
	}
	if err := note.MarkAsCompleted(); err != nil {
		t.Fatalf("MarkAsCompleted() failed: %v", err)
	}

	note.MarkAsFailed("canonical failure")
	if note.Status() != StatusFailed {
		t.Errorf("expected failed status, got %s", note.Status())
	}
	if note.ErrorMessage() != "canonical failure" {
		t.Errorf("unexpected error message %q", note.ErrorMessage())
	}

	events := note.PullEvents()
	last := events[len(events)-1]
	failed, ok := last.(*ProcessingFailedEvent)
	if !ok {
		t.Fatalf("expected ProcessingFailedEvent, got %T", last)
	}
	if failed.Payload().Error != "canonical failure" {
		t.Errorf("unexpected event payload error %q", failed.Payload().Error)
	}
}

func TestReprocess(t *testing.T) {
	note := newTestNote(t)
	if err := note.StartProcessing(); err != nil {
		t.Fatalf("StartProcessing() failed: %v", err)
	}

	if err := note.Reprocess("regenerate", ""); !errors.Is(err, ErrReprocessWhileProcessing) {
		t.Errorf("expected ErrReprocessWhileProcessing, got %v", err)
	}

	if err := note.MarkAsCompleted(); err != nil {
		t.Fatalf("MarkAsCompleted() failed: %v", err)
	}

	before := note.Version()
	if err := note.Reprocess("regenerate", "focus on decisions"); err != nil {
		t.Fatalf("Reprocess() failed: %v", err)
	}
	if note.Status() != StatusPending {
		t.Errorf("expected pending status after reprocess, got %s", note.Status())
	}
	if note.Version() != before+1 {
		t.Errorf("expected version %d, got %d", before+1, note.Version())
	}

	events := note.PullEvents()
	last := events[len(events)-1]
	rep, ok := last.(*ReprocessedEvent)
	if !ok {
		t.Fatalf("expected ReprocessedEvent, got %T", last)
	}
	if rep.Payload().CustomPrompt != "focus on decisions" {
		t.Errorf("unexpected custom prompt %q", rep.Payload().CustomPrompt)
	}
}

func TestAddSummaryRequiresTranscription(t *testing.T) {
	note := newTestNote(t)
	if err := note.StartProcessing(); err != nil {
		t.Fatalf("StartProcessing() failed: %v", err)
	}

	err := note.AddSummary(mustSummary(t), "gpt-4o", "openai")
	if !errors.Is(err, ErrSummaryWithoutTranscription) {
		t.Errorf("expected ErrSummaryWithoutTranscription, got %v", err)
	}
	if note.Summary() != nil {
		t.Error("summary must not be attached on rejected call")
	}

	note.AddTranscription(mustTranscription(t), "whisper-1", "openai")
	if err := note.AddSummary(mustSummary(t), "gpt-4o", "openai"); err != nil {
		t.Fatalf("AddSummary() after transcription failed: %v", err)
	}
}

func TestAddTranscriptionEventCarriesWordCount(t *testing.T) {
	note := newTestNote(t)
	if err := note.StartProcessing(); err != nil {
		t.Fatalf("StartProcessing() failed: %v", err)
	}
	note.PullEvents()

	note.AddTranscription(mustTranscription(t), "whisper-1", "openai")

	events := note.PullEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	tr, ok := events[0].(*TranscribedEvent)
	if !ok {
		t.Fatalf("expected TranscribedEvent, got %T", events[0])
	}
	if tr.Payload().WordCount != 5 {
		t.Errorf("expected word count 5, got %d", tr.Payload().WordCount)
	}
	if tr.Payload().Provider != "openai" {
		t.Errorf("unexpected provider %q", tr.Payload().Provider)
	}
}

func TestRebuildFromDTORecordsNoEvents(t *testing.T) {
	note := RebuildFromDTO(ReconstructionDTO{
		ID:       NoteID("note-1"),
		UserID:   "user-1",
		Title:    "rebuilt",
		AudioRef: "audio/x.m4a",
		Language: LanguagePolish,
		Status:   StatusCompleted,
		Version:  3,
	})

	if len(note.PullEvents()) != 0 {
		t.Error("rebuilt aggregate must not carry events")
	}
	if note.Status() != StatusCompleted {
		t.Errorf("expected completed status, got %s", note.Status())
	}
	if note.Version() != 3 {
		t.Errorf("expected version 3, got %d", note.Version())
	}
}
