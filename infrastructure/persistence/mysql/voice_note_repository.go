package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"voicenotes/domain/voicenote"
	"voicenotes/infrastructure/persistence"
	"voicenotes/infrastructure/persistence/mysql/po"
	"voicenotes/infrastructure/retry"
)

// VoiceNoteRepository MySQL/GORM implementation of the voice note repository
// DDD principle: Repository is only responsible for persistence of aggregate roots, not event publishing
// GORM usage specification: Association features are prohibited to maintain DDD aggregate boundaries
type VoiceNoteRepository struct {
	db       *gorm.DB
	retryCfg retry.Config
}

// NewVoiceNoteRepository Create voice note repository. Writes retry on
// transient MySQL failures (deadlock, lock wait timeout) per retryCfg.
func NewVoiceNoteRepository(db *gorm.DB, retryCfg retry.Config) *VoiceNoteRepository {
	return &VoiceNoteRepository{db: db, retryCfg: retryCfg}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *VoiceNoteRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save Save voice note (create or update)
// Updates compare-and-swap on the stored version: a row changed by another
// writer since this aggregate was loaded yields ErrConcurrentModification.
func (r *VoiceNoteRepository) Save(ctx context.Context, note *voicenote.VoiceNote) error {
	notePO := po.FromVoiceNoteDomain(note)

	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.saveWithTx(tx, note.NoteID(), notePO)
	}
	return retry.Do(ctx, r.retryCfg, isTransientError, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return r.saveWithTx(tx, note.NoteID(), notePO)
		})
	})
}

func (r *VoiceNoteRepository) saveWithTx(tx *gorm.DB, id voicenote.NoteID, notePO *po.VoiceNotePO) error {
	var stored struct{ Version int }
	err := tx.Model(&po.VoiceNotePO{}).
		Select("version").
		Where("id = ?", notePO.ID).
		First(&stored).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(notePO).Error
		}
		return err
	}

	// A stored version ahead of ours means this aggregate is stale.
	if stored.Version > notePO.Version {
		return voicenote.NewConcurrentModificationError(id)
	}

	result := tx.Model(&po.VoiceNotePO{}).
		Where("id = ? AND version = ?", notePO.ID, stored.Version).
		Select("*").
		Omit("id", "created_at").
		Updates(notePO)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return voicenote.NewConcurrentModificationError(id)
	}
	return nil
}

// FindByID Find voice note by ID
func (r *VoiceNoteRepository) FindByID(ctx context.Context, id voicenote.NoteID) (*voicenote.VoiceNote, error) {
	db := r.getDB(ctx)
	var notePO po.VoiceNotePO

	result := db.First(&notePO, "id = ?", id.String())
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, voicenote.NewNoteNotFoundError(id)
		}
		return nil, result.Error
	}
	return notePO.ToDomain()
}

// FindByUserID Find voice notes by user ID, newest first
func (r *VoiceNoteRepository) FindByUserID(ctx context.Context, userID string) ([]*voicenote.VoiceNote, error) {
	db := r.getDB(ctx)
	var notePOs []po.VoiceNotePO

	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notePOs).Error; err != nil {
		return nil, err
	}

	notes := make([]*voicenote.VoiceNote, len(notePOs))
	for i, notePO := range notePOs {
		note, err := notePO.ToDomain()
		if err != nil {
			return nil, err
		}
		notes[i] = note
	}
	return notes, nil
}

// Delete Delete voice note by ID. The event log is intentionally untouched.
func (r *VoiceNoteRepository) Delete(ctx context.Context, id voicenote.NoteID) error {
	db := r.getDB(ctx)
	result := db.Delete(&po.VoiceNotePO{}, "id = ?", id.String())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return voicenote.NewNoteNotFoundError(id)
	}
	return nil
}

var _ voicenote.Repository = (*VoiceNoteRepository)(nil)
