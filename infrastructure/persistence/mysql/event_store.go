package mysql

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"voicenotes/domain/shared"
	"voicenotes/domain/voicenote"
	"voicenotes/infrastructure/persistence"
	"voicenotes/infrastructure/persistence/mysql/po"
)

// EventStore MySQL/GORM implementation of the append-only event log.
// Rows are only ever inserted; there is no update or delete path.
type EventStore struct {
	db *gorm.DB
}

// NewEventStore Create event store
func NewEventStore(db *gorm.DB) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}

// Append Append one domain event to the log
func (s *EventStore) Append(ctx context.Context, event shared.DomainEvent) error {
	if err := shared.ValidateEvent(event); err != nil {
		return err
	}

	payload, err := json.Marshal(event.EventPayload())
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	eventPO := &po.DomainEventPO{
		EventID:     event.EventID(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     string(payload),
		OccurredAt:  event.OccurredOn(),
	}
	return s.getDB(ctx).Create(eventPO).Error
}

// EventsFor Return the events of one aggregate, oldest first
func (s *EventStore) EventsFor(ctx context.Context, id voicenote.NoteID) ([]voicenote.StoredEvent, error) {
	var eventPOs []po.DomainEventPO
	if err := s.getDB(ctx).
		Where("aggregate_id = ?", id.String()).
		Order("occurred_at ASC, id ASC").
		Find(&eventPOs).Error; err != nil {
		return nil, err
	}

	events := make([]voicenote.StoredEvent, len(eventPOs))
	for i, eventPO := range eventPOs {
		events[i] = voicenote.StoredEvent{
			EventID:     eventPO.EventID,
			AggregateID: eventPO.AggregateID,
			EventType:   eventPO.EventType,
			Payload:     json.RawMessage(eventPO.Payload),
			OccurredAt:  eventPO.OccurredAt,
		}
	}
	return events, nil
}

var _ voicenote.EventStore = (*EventStore)(nil)
