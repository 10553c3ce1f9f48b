package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/redis/go-redis/v9"
)

// PluginModule provides the cache as a mono plugin.
// Plugins start first and stop last, so consumers can use Port() from their Start.
type PluginModule struct {
	container types.ServiceContainer
	service   CacheService
	redisAddr string
	prefix    string
	ttl       time.Duration
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates the cache plugin. An empty redisAddr selects the
// no-op cache. The client is created here so Port() is usable before Start().
func NewPluginModule(redisAddr, prefix string, ttl time.Duration) *PluginModule {
	m := &PluginModule{
		redisAddr: redisAddr,
		prefix:    prefix,
		ttl:       ttl,
	}

	if redisAddr == "" {
		m.service = NewNoopCache()
		return m
	}

	client := redis.NewClient(&redis.Options{
		Addr:         redisAddr,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	m.service = NewRedisCache(client, prefix, ttl)
	return m
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "cache"
}

// Start verifies the Redis connection when one is configured.
func (m *PluginModule) Start(ctx context.Context) error {
	if m.redisAddr == "" {
		log.Println("[cache] No REDIS_ADDR configured, caching disabled")
		return nil
	}

	if err := m.service.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("[cache] Connected to Redis at %s (prefix: %s, TTL: %s)", m.redisAddr, m.prefix, m.ttl)
	return nil
}

// Stop closes the Redis connection.
func (m *PluginModule) Stop(_ context.Context) error {
	if err := m.service.Close(); err != nil {
		log.Printf("[cache] Error closing connection: %v", err)
		return fmt.Errorf("failed to close connection: %w", err)
	}
	log.Println("[cache] Plugin stopped")
	return nil
}

// SetContainer sets the service container for this plugin.
func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

// Container returns the service container for this plugin.
func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// Port returns the CacheService for consumers.
func (m *PluginModule) Port() CacheService {
	return m.service
}

// Health returns the current health status.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	details := map[string]any{
		"enabled": m.redisAddr != "",
		"stats":   m.service.Stats(),
	}

	if err := m.service.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
			Details: details,
		}
	}

	if m.redisAddr != "" {
		details["redis_addr"] = m.redisAddr
		details["prefix"] = m.prefix
		details["ttl"] = m.ttl.String()
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}
