package event

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/event-planner/domain/event"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// EventPort defines the event operations the HTTP layer depends on.
type EventPort interface {
	List(ctx context.Context, userID uint) ([]domain.Event, error)
	Get(ctx context.Context, id uint) (*domain.Event, error)
	Create(ctx context.Context, userID uint, in domain.Input) (*domain.Event, error)
	Update(ctx context.Context, id uint, in domain.Input) (*domain.Event, error)
	Delete(ctx context.Context, id uint) (*domain.Event, error)
}

var _ EventPort = (*Service)(nil)
var _ EventPort = (*EventAdapter)(nil)

// EventAdapter implements EventPort using the service container.
type EventAdapter struct {
	container mono.ServiceContainer
}

// NewEventAdapter creates a new EventAdapter.
func NewEventAdapter(container mono.ServiceContainer) *EventAdapter {
	return &EventAdapter{container: container}
}

// List returns the events owned by userID.
func (a *EventAdapter) List(ctx context.Context, userID uint) ([]domain.Event, error) {
	req := ListEventsRequest{UserID: userID}
	var resp ListEventsResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}
	if resp.Events == nil {
		resp.Events = []domain.Event{}
	}
	return resp.Events, nil
}

// Get returns one event.
func (a *EventAdapter) Get(ctx context.Context, id uint) (*domain.Event, error) {
	req := GetEventRequest{ID: id}
	return single(ctx, a.container, "get", &req)
}

// Create stores a new event owned by userID.
func (a *EventAdapter) Create(ctx context.Context, userID uint, in domain.Input) (*domain.Event, error) {
	req := CreateEventRequest{UserID: userID, Input: in}
	return single(ctx, a.container, "create", &req)
}

// Update replaces the editable fields of an event.
func (a *EventAdapter) Update(ctx context.Context, id uint, in domain.Input) (*domain.Event, error) {
	req := UpdateEventRequest{ID: id, Input: in}
	return single(ctx, a.container, "update", &req)
}

// Delete removes an event.
func (a *EventAdapter) Delete(ctx context.Context, id uint) (*domain.Event, error) {
	req := DeleteEventRequest{ID: id}
	return single(ctx, a.container, "delete", &req)
}

func single[Req any](ctx context.Context, container mono.ServiceContainer, service string, req *Req) (*domain.Event, error) {
	var resp EventResponse
	if err := helper.CallRequestReplyService(
		ctx, container, service, json.Marshal, json.Unmarshal, req, &resp,
	); err != nil {
		return nil, fmt.Errorf("%s request failed: %w", service, err)
	}
	if resp.Error != "" {
		if err, ok := codes[resp.Error]; ok {
			return nil, err
		}
		return nil, fmt.Errorf("event: unexpected reply code %q", resp.Error)
	}
	return &resp.Event, nil
}
