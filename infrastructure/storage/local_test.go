package storage

import (
	"bytes"
	"context"
	"testing"
)

func TestLocalAudioStoreRoundTrip(t *testing.T) {
	store, err := NewLocalAudioStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	data := []byte("fake audio bytes")
	ref, err := store.Save(context.Background(), "meeting.mp3", data)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if ref == "" {
		t.Fatal("Save() returned empty ref")
	}

	got, err := store.Read(context.Background(), ref)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("Read() returned different bytes")
	}

	if err := store.Delete(context.Background(), ref); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Read(context.Background(), ref); err == nil {
		t.Error("Read() after Delete() succeeded")
	}
}

func TestLocalAudioStoreUniqueRefs(t *testing.T) {
	store, err := NewLocalAudioStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ref1, err := store.Save(context.Background(), "note.mp3", []byte("one"))
	if err != nil {
		t.Fatal(err)
	}
	ref2, err := store.Save(context.Background(), "note.mp3", []byte("two"))
	if err != nil {
		t.Fatal(err)
	}
	if ref1 == ref2 {
		t.Error("same file name produced the same ref")
	}
}

func TestLocalAudioStoreRejectsEscapingRefs(t *testing.T) {
	store, err := NewLocalAudioStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, ref := range []string{"../etc/passwd", "/etc/passwd", "a/../../b"} {
		if _, err := store.Read(context.Background(), ref); err == nil {
			t.Errorf("Read(%q) succeeded, want rejection", ref)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"meeting notes.mp3", "meeting_notes.mp3"},
		{"../../evil.mp3", "evil.mp3"},
		{"", "audio"},
		{"ok-file_1.wav", "ok-file_1.wav"},
	}
	for _, tt := range tests {
		if got := sanitizeFileName(tt.in); got != tt.want {
			t.Errorf("sanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
