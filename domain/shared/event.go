package shared

import (
	"fmt"
	"sync"
	"time"
)

// DomainEvent is an immutable record of something that happened to an
// aggregate. Events are append-only facts: once recorded they are never
// mutated or deleted.
type DomainEvent interface {
	EventID() string
	EventName() string
	OccurredOn() time.Time
	GetAggregateID() string

	// EventPayload returns the event-specific payload struct. The event
	// store serializes it as an opaque blob and never interprets it.
	EventPayload() any
}

// DomainEventPublisher delivers events to in-process subscribers. Delivery
// is best-effort and strictly secondary to the event store append.
type DomainEventPublisher interface {
	Publish(event DomainEvent) error
	Subscribe(eventName string, handler EventHandler) error
	Unsubscribe(eventName string, handler EventHandler) error
}

// EventHandler reacts to a published domain event.
type EventHandler interface {
	Handle(event DomainEvent) error
	Name() string
}

// ValidateEvent rejects events missing the fields every event must carry.
func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.EventName() == "" {
		return fmt.Errorf("event name cannot be empty")
	}
	if event.GetAggregateID() == "" {
		return fmt.Errorf("aggregate ID cannot be empty")
	}
	if event.OccurredOn().IsZero() {
		return fmt.Errorf("occurred on time cannot be zero")
	}
	return nil
}

// EventBus is a simple synchronous in-process publisher.
type EventBus struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]EventHandler),
	}
}

func (bus *EventBus) Publish(event DomainEvent) error {
	if err := ValidateEvent(event); err != nil {
		return err
	}

	bus.mu.RLock()
	handlers := bus.handlers[event.EventName()]
	bus.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler.Handle(event); err != nil {
			errs = append(errs, fmt.Errorf("handler %s: %w", handler.Name(), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("event %s: %d handlers failed: %v", event.EventName(), len(errs), errs)
	}
	return nil
}

func (bus *EventBus) Subscribe(eventName string, handler EventHandler) error {
	if eventName == "" {
		return fmt.Errorf("event name cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	for _, h := range bus.handlers[eventName] {
		if h.Name() == handler.Name() {
			return fmt.Errorf("handler %s already subscribed to %s", handler.Name(), eventName)
		}
	}

	bus.handlers[eventName] = append(bus.handlers[eventName], handler)
	return nil
}

func (bus *EventBus) Unsubscribe(eventName string, handler EventHandler) error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	handlers, exists := bus.handlers[eventName]
	if !exists {
		return nil
	}

	for i, h := range handlers {
		if h.Name() == handler.Name() {
			bus.handlers[eventName] = append(handlers[:i], handlers[i+1:]...)
			return nil
		}
	}
	return nil
}

// FuncHandler adapts a plain function into an EventHandler.
type FuncHandler struct {
	name string
	fn   func(DomainEvent) error
}

func NewFuncHandler(name string, fn func(DomainEvent) error) *FuncHandler {
	if name == "" {
		name = fmt.Sprintf("func-handler-%d", time.Now().UnixNano())
	}
	return &FuncHandler{
		name: name,
		fn:   fn,
	}
}

func (h *FuncHandler) Handle(event DomainEvent) error {
	return h.fn(event)
}

func (h *FuncHandler) Name() string {
	return h.name
}
