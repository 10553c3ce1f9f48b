package auth

import (
	"time"

	domain "github.com/example/event-planner/domain/user"
)

// Replies carry domain failures as a wire code in Error instead of a
// transport error, so callers can restore the sentinel with ErrorFromCode.

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse represents a user registration response.
type RegisterResponse struct {
	User  UserView `json:"user"`
	Error string   `json:"error,omitempty"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly minted token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	Error        string `json:"error,omitempty"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// VerifyAccessRequest represents an access-token verification request.
type VerifyAccessRequest struct {
	Token string `json:"token"`
}

// VerifyAccessResponse represents an access-token verification response.
type VerifyAccessResponse struct {
	Valid  bool     `json:"valid"`
	UserID uint     `json:"user_id,omitempty"`
	Roles  []string `json:"roles,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID uint `json:"user_id"`
}

// UpdateUserRequest represents an admin update of roles or the active flag.
type UpdateUserRequest struct {
	UserID   uint      `json:"user_id"`
	Roles    *[]string `json:"roles,omitempty"`
	IsActive *bool     `json:"is_active,omitempty"`
}

// UserResponse wraps a user view with an optional error code.
type UserResponse struct {
	User  UserView `json:"user"`
	Error string   `json:"error,omitempty"`
}

// UserView is the public projection of an account. It never carries the hash.
type UserView struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserView projects a user entity.
func NewUserView(u *domain.User) UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		Roles:     domain.NewRoles(u.Roles...),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Entity converts the view back into a user entity without a password hash.
func (v UserView) Entity() *domain.User {
	return &domain.User{
		ID:        v.ID,
		Email:     v.Email,
		Roles:     domain.NewRoles(v.Roles...),
		IsActive:  v.IsActive,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func tokenResponse(p *domain.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresIn:    p.ExpiresIn,
		TokenType:    p.TokenType,
	}
}

func (r TokenResponse) pair() *domain.TokenPair {
	return &domain.TokenPair{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresIn:    r.ExpiresIn,
		TokenType:    r.TokenType,
	}
}
