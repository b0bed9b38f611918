package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"voicenotes/domain/shared"
	"voicenotes/domain/voicenote"
)

type EventStore struct {
	mu     sync.RWMutex
	events []voicenote.StoredEvent
}

func NewEventStore() *EventStore {
	return &EventStore{}
}

func (s *EventStore) Append(_ context.Context, event shared.DomainEvent) error {
	if err := shared.ValidateEvent(event); err != nil {
		return err
	}
	payload, err := json.Marshal(event.EventPayload())
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, voicenote.StoredEvent{
		EventID:     event.EventID(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     payload,
		OccurredAt:  event.OccurredOn(),
	})
	return nil
}

func (s *EventStore) EventsFor(_ context.Context, id voicenote.NoteID) ([]voicenote.StoredEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []voicenote.StoredEvent
	for _, ev := range s.events {
		if ev.AggregateID == id.String() {
			events = append(events, ev)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].OccurredAt.Before(events[j].OccurredAt)
	})
	return events, nil
}

var _ voicenote.EventStore = (*EventStore)(nil)
