package models

import (
	"time"

	"gorm.io/datatypes"
)

// Outbox event types emitted by the request and entity services.
const (
	OutboxEventRequestAccepted = "request.accepted"
	OutboxEventRequestRejected = "request.rejected"
	OutboxEventEntityCompleted = "entity.completed"
	OutboxEventEntityCancelled = "entity.cancelled"
)

// OutboxEvent is a notification written inside the same transaction as the
// state transition it announces. A background dispatcher delivers undelivered
// rows by email; delivery failure never affects the committed transition.
type OutboxEvent struct {
	BaseModel

	EventType string         `gorm:"not null;index" json:"event_type"`
	Recipient string         `gorm:"not null" json:"recipient"`
	Subject   string         `gorm:"not null" json:"subject"`
	Body      string         `json:"body"`
	Payload   datatypes.JSON `json:"payload,omitempty"`

	DispatchedAt *time.Time `gorm:"index" json:"dispatched_at,omitempty"`
	Attempts     int        `gorm:"not null;default:0" json:"attempts"`
}
