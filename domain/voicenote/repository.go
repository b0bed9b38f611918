package voicenote

import (
	"context"
	"encoding/json"
	"time"

	"voicenotes/domain/shared"
)

// Repository persists VoiceNote aggregates. Implementations must perform a
// compare-and-swap on the aggregate version when updating, returning
// ErrConcurrentModification on a lost race.
type Repository interface {
	Save(ctx context.Context, note *VoiceNote) error
	FindByID(ctx context.Context, id NoteID) (*VoiceNote, error)
	FindByUserID(ctx context.Context, userID string) ([]*VoiceNote, error)
	Delete(ctx context.Context, id NoteID) error
}

// EventStore is the append-only audit log of domain events. Events are
// serialized with their payload as an opaque blob; the store never interprets
// payload contents. Appended events are never mutated or deleted.
type EventStore interface {
	Append(ctx context.Context, event shared.DomainEvent) error

	// EventsFor returns the events of one aggregate ordered by occurrence
	// time ascending, for audit reads.
	EventsFor(ctx context.Context, id NoteID) ([]StoredEvent, error)
}

// StoredEvent is the read-side shape of a logged event. Payload stays raw:
// the log is an audit trail, not a source of truth to rebuild state from.
type StoredEvent struct {
	EventID     string          `json:"event_id"`
	AggregateID string          `json:"aggregate_id"`
	EventType   string          `json:"event_type"`
	Payload     json.RawMessage `json:"payload"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
