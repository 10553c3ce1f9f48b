package event

import (
	"time"
)

// Event is a calendar entry owned by a single user.
type Event struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"size:2000" json:"description"`
	Location    string     `gorm:"size:200" json:"location"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	CategoryID  *uint      `gorm:"index" json:"category_id,omitempty"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the table name for the Event entity.
func (Event) TableName() string {
	return "events"
}

// Input carries the writable fields of an event.
type Input struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	CategoryID  *uint      `json:"category_id,omitempty"`
}

// Apply copies the input fields onto e.
func (in Input) Apply(e *Event) {
	e.Title = in.Title
	e.Description = in.Description
	e.Location = in.Location
	e.StartsAt = in.StartsAt
	e.CategoryID = in.CategoryID
}
