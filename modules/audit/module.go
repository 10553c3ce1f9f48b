package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/event-planner/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// AuditModule subscribes to account and event lifecycle events.
type AuditModule struct {
	trail *Trail
}

var _ mono.Module = (*AuditModule)(nil)
var _ mono.EventConsumerModule = (*AuditModule)(nil)
var _ mono.ServiceProviderModule = (*AuditModule)(nil)

// NewModule creates an AuditModule keeping the newest capacity entries.
func NewModule(capacity int) *AuditModule {
	return &AuditModule{trail: NewTrail(capacity)}
}

// Name returns the module name.
func (m *AuditModule) Name() string {
	return "audit"
}

// Trail exposes the underlying trail.
func (m *AuditModule) Trail() *Trail {
	return m.trail
}

// RegisterEventConsumers subscribes to the account and event lifecycle events.
func (m *AuditModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.UserRegisteredV1, m.handleUserRegistered, m); err != nil {
		return fmt.Errorf("failed to register UserRegistered consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.UserUpdatedV1, m.handleUserUpdated, m); err != nil {
		return fmt.Errorf("failed to register UserUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.EventCreatedV1, m.handleEventCreated, m); err != nil {
		return fmt.Errorf("failed to register EventCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.EventDeletedV1, m.handleEventDeleted, m); err != nil {
		return fmt.Errorf("failed to register EventDeleted consumer: %w", err)
	}

	log.Printf("[audit] Registered event consumers: UserRegistered, UserUpdated, EventCreated, EventDeleted")
	return nil
}

func (m *AuditModule) handleUserRegistered(_ context.Context, event events.UserRegisteredEvent, _ *mono.Msg) error {
	log.Printf("[audit] User registered: %d", event.UserID)
	m.trail.Record(Entry{
		Kind:    KindUserRegistered,
		UserID:  event.UserID,
		Message: fmt.Sprintf("user %d registered as %s", event.UserID, event.Email),
		At:      event.RegisteredAt,
	})
	return nil
}

func (m *AuditModule) handleUserUpdated(_ context.Context, event events.UserUpdatedEvent, _ *mono.Msg) error {
	log.Printf("[audit] User updated: %d (active=%t)", event.UserID, event.IsActive)
	m.trail.Record(Entry{
		Kind:    KindUserUpdated,
		UserID:  event.UserID,
		Message: fmt.Sprintf("user %d now has roles %v, active=%t", event.UserID, event.Roles, event.IsActive),
		At:      event.UpdatedAt,
	})
	return nil
}

func (m *AuditModule) handleEventCreated(_ context.Context, event events.EventCreatedEvent, _ *mono.Msg) error {
	log.Printf("[audit] Event created: %d by user %d", event.EventID, event.UserID)
	m.trail.Record(Entry{
		Kind:    KindEventCreated,
		UserID:  event.UserID,
		Subject: event.EventID,
		Message: fmt.Sprintf("event %d %q created", event.EventID, event.Title),
		At:      event.CreatedAt,
	})
	return nil
}

func (m *AuditModule) handleEventDeleted(_ context.Context, event events.EventDeletedEvent, _ *mono.Msg) error {
	log.Printf("[audit] Event deleted: %d by user %d", event.EventID, event.UserID)
	m.trail.Record(Entry{
		Kind:    KindEventDeleted,
		UserID:  event.UserID,
		Subject: event.EventID,
		Message: fmt.Sprintf("event %d deleted", event.EventID),
		At:      event.DeletedAt,
	})
	return nil
}

// RegisterServices registers the recent-activity service.
func (m *AuditModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "recent-activity", json.Unmarshal, json.Marshal, m.handleRecentActivity,
	); err != nil {
		return fmt.Errorf("failed to register recent-activity service: %w", err)
	}
	return nil
}

func (m *AuditModule) handleRecentActivity(_ context.Context, req RecentActivityRequest, _ *mono.Msg) (RecentActivityResponse, error) {
	entries := m.trail.Recent(clampLimit(req.Limit))
	return RecentActivityResponse{Entries: entries, Total: m.trail.Len()}, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// Start starts the module.
func (m *AuditModule) Start(_ context.Context) error {
	log.Println("[audit] Module started - listening for account and event activity")
	return nil
}

// Stop stops the module.
func (m *AuditModule) Stop(_ context.Context) error {
	log.Println("[audit] Module stopped")
	return nil
}
