package po

import (
	"time"
)

// DomainEventPO Append-only domain event log row. Rows are only ever
// inserted; there is no update or delete path.
type DomainEventPO struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	EventID     string    `gorm:"size:64;uniqueIndex;not null"`
	AggregateID string    `gorm:"size:64;index;not null"`
	EventType   string    `gorm:"size:64;not null"`
	Payload     string    `gorm:"type:json"`
	OccurredAt  time.Time `gorm:"index;not null"`
}

// TableName Specify table name
func (DomainEventPO) TableName() string {
	return "voice_note_events"
}
