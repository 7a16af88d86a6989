package models

import (
	"encoding/json"
	"time"

	"github.com/lucasferraz/ordersys-backend/pkg/enums"
)

// OutboxEvent is a durable record of a domain event written in the same
// transaction as the state change it describes. A background publisher
// drains unpublished rows and relays them to Pub/Sub.
type OutboxEvent struct {
	ID            int64                     `gorm:"column:id;primaryKey;autoIncrement"`
	EventType     enums.OutboxEventType     `gorm:"column:event_type;not null"`
	AggregateType enums.OutboxAggregateType `gorm:"column:aggregate_type;not null"`
	AggregateID   int64                     `gorm:"column:aggregate_id;not null;index"`
	Payload       json.RawMessage           `gorm:"column:payload;type:jsonb;not null"`
	AttemptCount  int                       `gorm:"column:attempt_count;not null;default:0"`
	LastError     string                    `gorm:"column:last_error"`
	PublishedAt   *time.Time                `gorm:"column:published_at"`
	CreatedAt     time.Time                 `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides GORM's default pluralization.
func (OutboxEvent) TableName() string {
	return "outbox_events"
}

// Published reports whether the event has already been relayed.
func (e *OutboxEvent) Published() bool {
	return e.PublishedAt != nil
}
