package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/example/event-planner/config"
	domain "github.com/example/event-planner/domain/user"
	"github.com/example/event-planner/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// AuthModule provides account and token services.
type AuthModule struct {
	cfg      config.Config
	db       *gorm.DB
	service  *AuthService
	eventBus mono.EventBus
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)
var _ mono.EventBusAwareModule = (*AuthModule)(nil)
var _ mono.EventEmitterModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule backed by db.
func NewModule(cfg config.Config, db *gorm.DB) *AuthModule {
	return &AuthModule{
		cfg: cfg,
		db:  db,
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// SetEventBus receives the EventBus from the framework.
func (m *AuthModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *AuthModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.UserRegisteredV1.ToBase(),
		events.UserUpdatedV1.ToBase(),
	}
}

// Start migrates the users table, wires the service and seeds the admin account.
func (m *AuthModule) Start(ctx context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database not set")
	}

	if err := m.db.AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	codec, err := NewTokenCodec(m.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to create token codec: %w", err)
	}

	m.service = NewAuthService(
		NewUserRepository(m.db),
		NewPasswordHasherWithCost(m.cfg.BcryptCost),
		codec,
	)

	created, err := m.service.SeedAdmin(ctx, m.cfg.AdminEmail, m.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	if created {
		log.Printf("[auth] Seeded admin account %s", m.cfg.AdminEmail)
	}

	log.Printf("[auth] Module started (issuer: %s, access lifespan: %s)", m.cfg.JWT.Issuer, m.cfg.JWT.AccessTokenDuration)
	return nil
}

// Stop shuts down the module. The database is owned by the caller.
func (m *AuthModule) Stop(_ context.Context) error {
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
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
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.cfg.DBPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "register", json.Unmarshal, json.Marshal, m.handleRegister,
	); err != nil {
		return fmt.Errorf("failed to register register service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "login", json.Unmarshal, json.Marshal, m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "refresh-token", json.Unmarshal, json.Marshal, m.handleRefresh,
	); err != nil {
		return fmt.Errorf("failed to register refresh-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "verify-access", json.Unmarshal, json.Marshal, m.handleVerifyAccess,
	); err != nil {
		return fmt.Errorf("failed to register verify-access service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser,
	); err != nil {
		return fmt.Errorf("failed to register get-user service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-user", json.Unmarshal, json.Marshal, m.handleUpdateUser,
	); err != nil {
		return fmt.Errorf("failed to register update-user service: %w", err)
	}

	log.Printf("[auth] Registered services: register, login, refresh-token, verify-access, get-user, update-user")
	return nil
}

// replyCode splits an error into a wire code for known domain failures and
// a transport error for everything else.
func replyCode(err error) (string, error) {
	if code, ok := ErrorCode(err); ok {
		return code, nil
	}
	return "", err
}

func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (RegisterResponse, error) {
	user, err := m.service.Register(ctx, req.Email, req.Password)
	if err != nil {
		code, err := replyCode(err)
		return RegisterResponse{Error: code}, err
	}

	if m.eventBus != nil {
		event := events.UserRegisteredEvent{
			UserID:       user.ID,
			Email:        user.Email,
			Roles:        user.Roles,
			RegisteredAt: user.CreatedAt,
		}
		if err := events.UserRegisteredV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[auth] Warning: failed to publish UserRegistered event for user %d: %v", user.ID, err)
		}
	}

	return RegisterResponse{User: NewUserView(user)}, nil
}

func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (TokenResponse, error) {
	tokens, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		code, err := replyCode(err)
		return TokenResponse{Error: code}, err
	}
	return tokenResponse(tokens), nil
}

func (m *AuthModule) handleRefresh(ctx context.Context, req RefreshRequest, _ *mono.Msg) (TokenResponse, error) {
	tokens, err := m.service.Refresh(ctx, req.RefreshToken)
	if err != nil {
		code, err := replyCode(err)
		return TokenResponse{Error: code}, err
	}
	return tokenResponse(tokens), nil
}

// handleVerifyAccess reports token failures in the body, not as an error.
func (m *AuthModule) handleVerifyAccess(ctx context.Context, req VerifyAccessRequest, _ *mono.Msg) (VerifyAccessResponse, error) {
	identity, err := m.service.VerifyAccess(ctx, req.Token)
	if err != nil {
		code, err := replyCode(err)
		return VerifyAccessResponse{Valid: false, Error: code}, err
	}

	return VerifyAccessResponse{
		Valid:  true,
		UserID: identity.ID,
		Roles:  identity.Roles,
	}, nil
}

func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (UserResponse, error) {
	user, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		code, err := replyCode(err)
		return UserResponse{Error: code}, err
	}
	return UserResponse{User: NewUserView(user)}, nil
}

func (m *AuthModule) handleUpdateUser(ctx context.Context, req UpdateUserRequest, _ *mono.Msg) (UserResponse, error) {
	changes := domain.Changes{IsActive: req.IsActive}
	if req.Roles != nil {
		roles := domain.Roles(*req.Roles)
		changes.Roles = &roles
	}

	user, err := m.service.UpdateUser(ctx, req.UserID, changes)
	if err != nil {
		code, err := replyCode(err)
		return UserResponse{Error: code}, err
	}

	if m.eventBus != nil {
		event := events.UserUpdatedEvent{
			UserID:    user.ID,
			Roles:     user.Roles,
			IsActive:  user.IsActive,
			UpdatedAt: time.Now(),
		}
		if err := events.UserUpdatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[auth] Warning: failed to publish UserUpdated event for user %d: %v", user.ID, err)
		}
	}

	return UserResponse{User: NewUserView(user)}, nil
}
