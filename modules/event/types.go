package event

import (
	domain "github.com/example/event-planner/domain/event"
)

// ListEventsRequest asks for the events of one owner.
type ListEventsRequest struct {
	UserID uint `json:"user_id"`
}

// ListEventsResponse represents a list response.
type ListEventsResponse struct {
	Events []domain.Event `json:"events"`
	Total  int            `json:"total"`
}

// GetEventRequest represents a get request.
type GetEventRequest struct {
	ID uint `json:"id"`
}

// CreateEventRequest represents a create request on behalf of UserID.
type CreateEventRequest struct {
	UserID uint         `json:"user_id"`
	Input  domain.Input `json:"input"`
}

// UpdateEventRequest represents an update request.
type UpdateEventRequest struct {
	ID    uint         `json:"id"`
	Input domain.Input `json:"input"`
}

// DeleteEventRequest represents a delete request.
type DeleteEventRequest struct {
	ID uint `json:"id"`
}

// EventResponse carries a single event or an error code.
type EventResponse struct {
	Event domain.Event `json:"event"`
	Error string       `json:"error,omitempty"`
}
