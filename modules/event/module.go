package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	domain "github.com/example/event-planner/domain/event"
	"github.com/example/event-planner/events"
	"github.com/example/event-planner/modules/category"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// EventModule provides event services.
type EventModule struct {
	db         *gorm.DB
	categories category.CategoryPort
	service    *Service
	eventBus   mono.EventBus
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*EventModule)(nil)
	_ mono.ServiceProviderModule = (*EventModule)(nil)
	_ mono.DependentModule       = (*EventModule)(nil)
	_ mono.HealthCheckableModule = (*EventModule)(nil)
	_ mono.EventBusAwareModule   = (*EventModule)(nil)
	_ mono.EventEmitterModule    = (*EventModule)(nil)
)

// NewModule creates a new EventModule backed by db.
func NewModule(db *gorm.DB) *EventModule {
	return &EventModule{db: db}
}

// Name returns the module name.
func (m *EventModule) Name() string {
	return "event"
}

// Dependencies returns the list of module dependencies.
func (m *EventModule) Dependencies() []string {
	return []string{"category"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *EventModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "category" {
		m.categories = category.NewCategoryAdapter(container)
	}
}

// SetEventBus receives the EventBus from the framework.
func (m *EventModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *EventModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.EventCreatedV1.ToBase(),
		events.EventDeletedV1.ToBase(),
	}
}

// Start migrates the events table and wires the service.
func (m *EventModule) Start(_ context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database not set")
	}
	if m.categories == nil {
		return fmt.Errorf("category dependency not set")
	}

	if err := m.db.AutoMigrate(&domain.Event{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	m.service = NewService(NewRepository(m.db), m.categories)

	log.Println("[event] Module started")
	return nil
}

// Stop shuts down the module.
func (m *EventModule) Stop(_ context.Context) error {
	log.Println("[event] Module stopped")
	return nil
}

// Health performs a health check on the event module.
func (m *EventModule) Health(ctx context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "service not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *EventModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.listEvents,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.getEvent,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "create", json.Unmarshal, json.Marshal, m.createEvent,
	); err != nil {
		return fmt.Errorf("failed to register create service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update", json.Unmarshal, json.Marshal, m.updateEvent,
	); err != nil {
		return fmt.Errorf("failed to register update service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete", json.Unmarshal, json.Marshal, m.deleteEvent,
	); err != nil {
		return fmt.Errorf("failed to register delete service: %w", err)
	}

	log.Printf("[event] Registered services: services.event.{list,get,create,update,delete}")
	return nil
}

// reply turns a service result into an EventResponse, moving domain
// failures into the error code.
func reply(e *domain.Event, err error) (EventResponse, error) {
	if err != nil {
		if code, ok := errorCode(err); ok {
			return EventResponse{Error: code}, nil
		}
		return EventResponse{}, err
	}
	return EventResponse{Event: *e}, nil
}

func (m *EventModule) listEvents(ctx context.Context, req ListEventsRequest, _ *mono.Msg) (ListEventsResponse, error) {
	list, err := m.service.List(ctx, req.UserID)
	if err != nil {
		return ListEventsResponse{}, err
	}
	return ListEventsResponse{Events: list, Total: len(list)}, nil
}

func (m *EventModule) getEvent(ctx context.Context, req GetEventRequest, _ *mono.Msg) (EventResponse, error) {
	return reply(m.service.Get(ctx, req.ID))
}

func (m *EventModule) createEvent(ctx context.Context, req CreateEventRequest, _ *mono.Msg) (EventResponse, error) {
	e, err := m.service.Create(ctx, req.UserID, req.Input)
	if err == nil && m.eventBus != nil {
		event := events.EventCreatedEvent{
			EventID:   e.ID,
			Title:     e.Title,
			UserID:    e.UserID,
			CreatedAt: e.CreatedAt,
		}
		if err := events.EventCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[event] Warning: failed to publish EventCreated event for event %d: %v", e.ID, err)
		}
	}
	return reply(e, err)
}

func (m *EventModule) updateEvent(ctx context.Context, req UpdateEventRequest, _ *mono.Msg) (EventResponse, error) {
	return reply(m.service.Update(ctx, req.ID, req.Input))
}

func (m *EventModule) deleteEvent(ctx context.Context, req DeleteEventRequest, _ *mono.Msg) (EventResponse, error) {
	e, err := m.service.Delete(ctx, req.ID)
	if err == nil && m.eventBus != nil {
		event := events.EventDeletedEvent{
			EventID:   e.ID,
			UserID:    e.UserID,
			DeletedAt: time.Now(),
		}
		if err := events.EventDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[event] Warning: failed to publish EventDeleted event for event %d: %v", e.ID, err)
		}
	}
	return reply(e, err)
}
