// Package events holds the typed event-bus definitions shared between modules.
package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// UserRegisteredEvent is emitted when an account is created.
type UserRegisteredEvent struct {
	UserID       uint      `json:"user_id"`
	Email        string    `json:"email"`
	Roles        []string  `json:"roles"`
	RegisteredAt time.Time `json:"registered_at"`
}

// UserRegisteredV1 is the typed event definition for account creation.
// Subject: events.auth.v1.user-registered
var UserRegisteredV1 = helper.EventDefinition[UserRegisteredEvent](
	"auth", "UserRegistered", "v1",
)

// UserUpdatedEvent is emitted when an admin changes roles or the active flag.
type UserUpdatedEvent struct {
	UserID    uint      `json:"user_id"`
	Roles     []string  `json:"roles"`
	IsActive  bool      `json:"is_active"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserUpdatedV1 is the typed event definition for account changes.
// Subject: events.auth.v1.user-updated
var UserUpdatedV1 = helper.EventDefinition[UserUpdatedEvent](
	"auth", "UserUpdated", "v1",
)
