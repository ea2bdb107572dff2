// Package outbox provides the outbox table model the capture connector
// reads, plus helpers for tests to create the table and seed events.
package outbox

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is one row of the outbox table. Column names follow the Debezium
// EventRouter defaults: id, aggregatetype, aggregateid, type, payload.
type Event struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	AggregateType string    `gorm:"column:aggregatetype;not null"`
	AggregateID   string    `gorm:"column:aggregateid;not null"`
	Type          string    `gorm:"column:type;not null"`
	Payload       string    `gorm:"column:payload"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

// TableName returns the outbox table name captured by the connector.
func (Event) TableName() string { return "outbox_event" }

// NewEvent builds an outbox event with a fresh ID.
func NewEvent(aggregateType, aggregateID, eventType, payload string) Event {
	return Event{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Type:          eventType,
		Payload:       payload,
	}
}

// EnsureTable creates the outbox table if it does not exist.
func EnsureTable(db *gorm.DB) error {
	if err := db.AutoMigrate(&Event{}); err != nil {
		return fmt.Errorf("failed to migrate outbox table: %w", err)
	}
	return nil
}

// Seed inserts the given events inside one transaction, so the connector
// observes them as a single change batch.
func Seed(db *gorm.DB, events ...Event) error {
	if len(events) == 0 {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for i := range events {
			if err := tx.Create(&events[i]).Error; err != nil {
				return fmt.Errorf("failed to insert outbox event %s: %w", events[i].ID, err)
			}
		}
		return nil
	})
}
