package api

import (
	"time"

	"github.com/example/event-planner/modules/audit"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MessageResponse is the body of the registration endpoint.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// TokenResponse represents an authentication token response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// ProfileResponse describes the authenticated caller.
type ProfileResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateUserRequest is the admin patch body. Absent fields are unchanged.
type UpdateUserRequest struct {
	Roles    *[]string `json:"roles"`
	IsActive *bool     `json:"is_active"`
}

// ActivityResponse lists recent audit entries.
type ActivityResponse struct {
	Entries []audit.Entry `json:"entries"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
