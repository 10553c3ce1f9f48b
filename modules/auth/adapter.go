package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/event-planner/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface other modules use to reach auth functionality.
// Both AuthService and AuthAdapter satisfy it.
type AuthPort interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	VerifyAccess(ctx context.Context, token string) (*domain.Identity, error)
	GetUser(ctx context.Context, id uint) (*domain.User, error)
	UpdateUser(ctx context.Context, id uint, changes domain.Changes) (*domain.User, error)
}

var _ AuthPort = (*AuthService)(nil)
var _ AuthPort = (*AuthAdapter)(nil)

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

func call[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

// codeError restores the sentinel for a reply code.
func codeError(code string) error {
	if code == "" {
		return nil
	}
	if err := ErrorFromCode(code); err != nil {
		return err
	}
	return fmt.Errorf("auth: unexpected reply code %q", code)
}

// Register creates an account.
func (a *AuthAdapter) Register(ctx context.Context, email, password string) (*domain.User, error) {
	req := RegisterRequest{Email: email, Password: password}
	var resp RegisterResponse
	if err := call(ctx, a.container, "register", &req, &resp); err != nil {
		return nil, err
	}
	if err := codeError(resp.Error); err != nil {
		return nil, err
	}
	return resp.User.Entity(), nil
}

// Login exchanges credentials for a token pair.
func (a *AuthAdapter) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	req := LoginRequest{Email: email, Password: password}
	var resp TokenResponse
	if err := call(ctx, a.container, "login", &req, &resp); err != nil {
		return nil, err
	}
	if err := codeError(resp.Error); err != nil {
		return nil, err
	}
	return resp.pair(), nil
}

// Refresh exchanges a refresh token for a new access token.
func (a *AuthAdapter) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	req := RefreshRequest{RefreshToken: refreshToken}
	var resp TokenResponse
	if err := call(ctx, a.container, "refresh-token", &req, &resp); err != nil {
		return nil, err
	}
	if err := codeError(resp.Error); err != nil {
		return nil, err
	}
	return resp.pair(), nil
}

// VerifyAccess validates an access token and returns the current identity.
func (a *AuthAdapter) VerifyAccess(ctx context.Context, token string) (*domain.Identity, error) {
	req := VerifyAccessRequest{Token: token}
	var resp VerifyAccessResponse
	if err := call(ctx, a.container, "verify-access", &req, &resp); err != nil {
		return nil, err
	}
	if !resp.Valid {
		if err := codeError(resp.Error); err != nil {
			return nil, err
		}
		return nil, ErrMalformedToken
	}
	return &domain.Identity{
		ID:    resp.UserID,
		Roles: domain.NewRoles(resp.Roles...),
	}, nil
}

// GetUser retrieves a user by ID.
func (a *AuthAdapter) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	req := GetUserRequest{UserID: id}
	var resp UserResponse
	if err := call(ctx, a.container, "get-user", &req, &resp); err != nil {
		return nil, err
	}
	if err := codeError(resp.Error); err != nil {
		return nil, err
	}
	return resp.User.Entity(), nil
}

// UpdateUser changes roles and/or the active flag of an account.
func (a *AuthAdapter) UpdateUser(ctx context.Context, id uint, changes domain.Changes) (*domain.User, error) {
	req := UpdateUserRequest{UserID: id, IsActive: changes.IsActive}
	if changes.Roles != nil {
		roles := []string(*changes.Roles)
		req.Roles = &roles
	}
	var resp UserResponse
	if err := call(ctx, a.container, "update-user", &req, &resp); err != nil {
		return nil, err
	}
	if err := codeError(resp.Error); err != nil {
		return nil, err
	}
	return resp.User.Entity(), nil
}
