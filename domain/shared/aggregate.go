package shared

// AggregateRoot is the entry point of an aggregate. It owns the aggregate's
// consistency boundary: all mutation goes through its methods, and every
// mutation that matters to the outside world is recorded as a domain event.
type AggregateRoot interface {
	// ID returns the globally unique identifier of the aggregate.
	ID() string

	// Version returns the current version counter, used for optimistic
	// concurrency control at the persistence layer.
	Version() int

	// PullEvents returns and clears the domain events recorded since the
	// aggregate was created or loaded. The caller is responsible for
	// appending them to the event store after the aggregate is persisted.
	PullEvents() []DomainEvent
}

// Entity has identity; equality is by ID, not by attribute values.
type Entity interface {
	ID() string
}
