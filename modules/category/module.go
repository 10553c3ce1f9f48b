package category

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	domain "github.com/example/event-planner/domain/category"
	"github.com/example/event-planner/modules/cache"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// CategoryModule provides category services.
type CategoryModule struct {
	db      *gorm.DB
	cache   cache.CacheService
	service *Service
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*CategoryModule)(nil)
	_ mono.ServiceProviderModule = (*CategoryModule)(nil)
	_ mono.HealthCheckableModule = (*CategoryModule)(nil)
	_ mono.UsePluginModule       = (*CategoryModule)(nil)
)

// NewModule creates a new CategoryModule backed by db.
func NewModule(db *gorm.DB) *CategoryModule {
	return &CategoryModule{db: db}
}

// Name returns the module name.
func (m *CategoryModule) Name() string {
	return "category"
}

// SetPlugin receives the cache plugin from the framework.
func (m *CategoryModule) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "cache" {
		return
	}
	if cachePlugin, ok := plugin.(*cache.PluginModule); ok {
		m.cache = cachePlugin.Port()
		log.Println("[category] Cache plugin injected")
	}
}

// Start migrates the categories table and wires the service.
func (m *CategoryModule) Start(_ context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database not set")
	}

	if err := m.db.AutoMigrate(&domain.Category{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if m.cache == nil {
		log.Println("[category] No cache plugin, reads go to the database")
	}
	m.service = NewService(NewRepository(m.db), m.cache)

	log.Println("[category] Module started")
	return nil
}

// Stop shuts down the module.
func (m *CategoryModule) Stop(_ context.Context) error {
	log.Println("[category] Module stopped")
	return nil
}

// Health performs a health check on the category module.
func (m *CategoryModule) Health(ctx context.Context) mono.HealthStatus {
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
		Details: map[string]any{
			"cache": m.service.cache.Stats(),
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *CategoryModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.listCategories,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.getCategory,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "create", json.Unmarshal, json.Marshal, m.createCategory,
	); err != nil {
		return fmt.Errorf("failed to register create service: %w", err)
	}

	log.Printf("[category] Registered services: services.category.{list,get,create}")
	return nil
}

func (m *CategoryModule) listCategories(ctx context.Context, _ ListCategoriesRequest, _ *mono.Msg) (ListCategoriesResponse, error) {
	categories, err := m.service.List(ctx)
	if err != nil {
		return ListCategoriesResponse{}, err
	}
	return ListCategoriesResponse{Categories: categories, Total: len(categories)}, nil
}

func (m *CategoryModule) getCategory(ctx context.Context, req GetCategoryRequest, _ *mono.Msg) (CategoryResponse, error) {
	c, err := m.service.Get(ctx, req.ID)
	if err != nil {
		if code, ok := errorCode(err); ok {
			return CategoryResponse{Error: code}, nil
		}
		return CategoryResponse{}, err
	}
	return CategoryResponse{Category: *c}, nil
}

func (m *CategoryModule) createCategory(ctx context.Context, req CreateCategoryRequest, _ *mono.Msg) (CategoryResponse, error) {
	c, err := m.service.Create(ctx, domain.Input{Name: req.Name, Description: req.Description})
	if err != nil {
		if code, ok := errorCode(err); ok {
			return CategoryResponse{Error: code}, nil
		}
		return CategoryResponse{}, err
	}
	return CategoryResponse{Category: *c}, nil
}
