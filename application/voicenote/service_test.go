package voicenote

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"voicenotes/domain/shared"
	"voicenotes/domain/voicenote"
)

type fakeAudioStore struct {
	blobs   map[string][]byte
	deletes int
}

func newFakeAudioStore() *fakeAudioStore {
	return &fakeAudioStore{blobs: map[string][]byte{}}
}

func (s *fakeAudioStore) Save(_ context.Context, fileName string, data []byte) (string, error) {
	ref := "audio/" + fileName
	s.blobs[ref] = data
	return ref, nil
}

func (s *fakeAudioStore) Read(_ context.Context, ref string) ([]byte, error) {
	data, ok := s.blobs[ref]
	if !ok {
		return nil, fmt.Errorf("no blob at %s", ref)
	}
	return data, nil
}

func (s *fakeAudioStore) Delete(_ context.Context, ref string) error {
	s.deletes++
	delete(s.blobs, ref)
	return nil
}

func newTestService() (*Service, *fixture, *fakeAudioStore) {
	f := newFixture()
	audio := newFakeAudioStore()
	svc := NewService(f.repo, f.events, audio, f.orchestrator, 1024*1024, []string{"audio/mpeg", "audio/wav"})
	return svc, f, audio
}

func uploadCommand() UploadCommand {
	return UploadCommand{
		UserID:   "user-1",
		Title:    "standup",
		FileName: "standup.mp3",
		MimeType: "audio/mpeg",
		Language: "en",
		Data:     []byte("audio-bytes"),
	}
}

func TestUploadCreatesPendingNote(t *testing.T) {
	svc, f, audio := newTestService()

	resp, err := svc.Upload(context.Background(), uploadCommand())
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if resp.Status != "pending" {
		t.Errorf("Status = %q, want pending", resp.Status)
	}
	if resp.FileSizeBytes != int64(len("audio-bytes")) {
		t.Errorf("FileSizeBytes = %d", resp.FileSizeBytes)
	}
	if len(audio.blobs) != 1 {
		t.Errorf("stored blobs = %d, want 1", len(audio.blobs))
	}

	names := f.events.eventNames()
	if len(names) != 1 || names[0] != voicenote.EventUploaded {
		t.Errorf("events = %v, want single %s", names, voicenote.EventUploaded)
	}
}

func TestUploadRejectsUnsupportedMimeType(t *testing.T) {
	svc, _, audio := newTestService()

	cmd := uploadCommand()
	cmd.MimeType = "video/mp4"
	_, err := svc.Upload(context.Background(), cmd)
	if !errors.Is(err, voicenote.ErrUnsupportedMimeType) {
		t.Fatalf("error = %v, want ErrUnsupportedMimeType", err)
	}
	if len(audio.blobs) != 0 {
		t.Error("blob stored despite rejected upload")
	}
}

func TestUploadRejectsEmptyAndOversizedFiles(t *testing.T) {
	svc, _, _ := newTestService()

	cmd := uploadCommand()
	cmd.Data = nil
	if _, err := svc.Upload(context.Background(), cmd); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("empty file error = %v, want ErrInvalidInput", err)
	}

	cmd = uploadCommand()
	cmd.Data = make([]byte, 2*1024*1024)
	if _, err := svc.Upload(context.Background(), cmd); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("oversized file error = %v, want ErrInvalidInput", err)
	}
}

func TestUploadCleansUpBlobWhenNoteInvalid(t *testing.T) {
	svc, _, audio := newTestService()

	cmd := uploadCommand()
	cmd.Title = ""
	_, err := svc.Upload(context.Background(), cmd)
	if err == nil {
		t.Fatal("Upload() error = nil, want validation error")
	}
	if audio.deletes != 1 {
		t.Errorf("audio deletes = %d, want 1 orphan cleanup", audio.deletes)
	}
}

func TestUploadAnonymousSession(t *testing.T) {
	svc, _, _ := newTestService()

	cmd := uploadCommand()
	cmd.UserID = ""
	cmd.SessionID = "session-9"
	resp, err := svc.Upload(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if resp.SessionID != "session-9" {
		t.Errorf("SessionID = %q", resp.SessionID)
	}
}

func TestProcessByIDFullCycle(t *testing.T) {
	svc, _, _ := newTestService()

	uploaded, err := svc.Upload(context.Background(), uploadCommand())
	if err != nil {
		t.Fatal(err)
	}

	processed, err := svc.ProcessByID(context.Background(), uploaded.ID, ProcessCommand{})
	if err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if processed.Status != "completed" {
		t.Errorf("Status = %q, want completed", processed.Status)
	}
	if processed.Transcription == nil || processed.Summary == nil {
		t.Error("transcription or summary missing in response")
	}
}

func TestProcessByIDUnknownNote(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ProcessByID(context.Background(), "018f6f66-0000-7000-8000-000000000000", ProcessCommand{})
	if !errors.Is(err, voicenote.ErrNoteNotFound) {
		t.Fatalf("error = %v, want ErrNoteNotFound", err)
	}
}

func TestProcessByIDInvalidID(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.ProcessByID(context.Background(), "not-a-uuid", ProcessCommand{}); err == nil {
		t.Fatal("ProcessByID() error = nil, want parse error")
	}
}

func TestUpdateTagsReplacesTags(t *testing.T) {
	svc, _, _ := newTestService()

	uploaded, err := svc.Upload(context.Background(), uploadCommand())
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.UpdateTags(context.Background(), uploaded.ID, []string{" meetings ", "", "standup"})
	if err != nil {
		t.Fatalf("UpdateTags() error = %v", err)
	}
	if len(updated.Tags) != 2 || updated.Tags[0] != "meetings" || updated.Tags[1] != "standup" {
		t.Errorf("Tags = %v, want [meetings standup]", updated.Tags)
	}

	got, err := svc.Get(context.Background(), uploaded.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Tags) != 2 {
		t.Errorf("persisted Tags = %v, want 2 entries", got.Tags)
	}
}

func TestDeleteRemovesNoteAndBlob(t *testing.T) {
	svc, f, audio := newTestService()

	uploaded, err := svc.Upload(context.Background(), uploadCommand())
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(context.Background(), uploaded.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(audio.blobs) != 0 {
		t.Error("blob not deleted")
	}
	if len(f.repo.notes) != 0 {
		t.Error("note not deleted")
	}
}
