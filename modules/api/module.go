package api

import (
	"context"
	"fmt"
	"log"

	"github.com/example/event-planner/config"
	"github.com/example/event-planner/modules/audit"
	"github.com/example/event-planner/modules/auth"
	"github.com/example/event-planner/modules/category"
	"github.com/example/event-planner/modules/event"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
)

// APIModule is the HTTP API module.
type APIModule struct {
	cfg   config.Config
	app   *fiber.App
	ports Ports
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule.
func NewModule(cfg config.Config) *APIModule {
	return &APIModule{cfg: cfg}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "category", "event", "audit"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.ports.Auth = auth.NewAuthAdapter(container)
	case "category":
		m.ports.Categories = category.NewCategoryAdapter(container)
	case "event":
		m.ports.Events = event.NewEventAdapter(container)
	case "audit":
		m.ports.Activity = audit.NewAuditAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	switch {
	case m.ports.Auth == nil:
		return fmt.Errorf("auth dependency not set")
	case m.ports.Categories == nil:
		return fmt.Errorf("category dependency not set")
	case m.ports.Events == nil:
		return fmt.Errorf("event dependency not set")
	case m.ports.Activity == nil:
		return fmt.Errorf("audit dependency not set")
	}

	m.app = NewRouter(m.ports, RouterOptions{})

	go func() {
		if err := m.app.Listen(m.cfg.HTTPAddr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on %s", m.cfg.HTTPAddr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.ShutdownWithContext(ctx)
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.cfg.HTTPAddr,
		},
	}
}
