// Package memory holds in-memory implementations of the persistence ports,
// used for development mode and tests. Semantics mirror the MySQL
// implementations, including version conflict detection.
package memory

import (
	"context"
	"sort"
	"sync"

	"voicenotes/domain/voicenote"
)

type VoiceNoteRepository struct {
	mu    sync.RWMutex
	notes map[string]*voicenote.VoiceNote
}

func NewVoiceNoteRepository() *VoiceNoteRepository {
	return &VoiceNoteRepository{notes: make(map[string]*voicenote.VoiceNote)}
}

func (r *VoiceNoteRepository) Save(_ context.Context, note *voicenote.VoiceNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stored, ok := r.notes[note.ID()]; ok && stored.Version() > note.Version() {
		return voicenote.NewConcurrentModificationError(note.NoteID())
	}
	r.notes[note.ID()] = snapshot(note)
	return nil
}

func (r *VoiceNoteRepository) FindByID(_ context.Context, id voicenote.NoteID) (*voicenote.VoiceNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, ok := r.notes[id.String()]
	if !ok {
		return nil, voicenote.NewNoteNotFoundError(id)
	}
	return snapshot(note), nil
}

func (r *VoiceNoteRepository) FindByUserID(_ context.Context, userID string) ([]*voicenote.VoiceNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var notes []*voicenote.VoiceNote
	for _, note := range r.notes {
		if note.UserID() == userID {
			notes = append(notes, snapshot(note))
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt().After(notes[j].CreatedAt())
	})
	return notes, nil
}

func (r *VoiceNoteRepository) Delete(_ context.Context, id voicenote.NoteID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[id.String()]; !ok {
		return voicenote.NewNoteNotFoundError(id)
	}
	delete(r.notes, id.String())
	return nil
}

var _ voicenote.Repository = (*VoiceNoteRepository)(nil)

// snapshot detaches the stored aggregate from the caller's copy so later
// mutations do not bleed through the map.
func snapshot(note *voicenote.VoiceNote) *voicenote.VoiceNote {
	return voicenote.RebuildFromDTO(voicenote.ReconstructionDTO{
		ID:                  note.NoteID(),
		UserID:              note.UserID(),
		SessionID:           note.SessionID(),
		Title:               note.Title(),
		AudioRef:            note.AudioRef(),
		FileSizeBytes:       note.FileSizeBytes(),
		MimeType:            note.MimeType(),
		Language:            note.Language(),
		Status:              note.Status(),
		Tags:                note.Tags(),
		ErrorMessage:        note.ErrorMessage(),
		TranscriptionPrompt: note.TranscriptionPrompt(),
		SummaryPrompt:       note.SummaryPrompt(),
		Transcription:       note.Transcription(),
		Summary:             note.Summary(),
		CreatedAt:           note.CreatedAt(),
		UpdatedAt:           note.UpdatedAt(),
		Version:             note.Version(),
	})
}
