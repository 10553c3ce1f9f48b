package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// EventCreatedEvent is emitted when a user creates an event.
type EventCreatedEvent struct {
	EventID   uint      `json:"event_id"`
	Title     string    `json:"title"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// EventCreatedV1 is the typed event definition for event creation.
// Subject: events.event.v1.event-created
var EventCreatedV1 = helper.EventDefinition[EventCreatedEvent](
	"event", "EventCreated", "v1",
)

// EventDeletedEvent is emitted when an owner deletes an event.
type EventDeletedEvent struct {
	EventID   uint      `json:"event_id"`
	UserID    uint      `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// EventDeletedV1 is the typed event definition for event deletion.
// Subject: events.event.v1.event-deleted
var EventDeletedV1 = helper.EventDefinition[EventDeletedEvent](
	"event", "EventDeleted", "v1",
)
