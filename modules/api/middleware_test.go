package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domain "github.com/example/event-planner/domain/user"
	"github.com/example/event-planner/modules/auth"
	"github.com/gofiber/fiber/v2"
)

// mockAuthPort implements auth.AuthPort for testing
type mockAuthPort struct {
	verifyAccessFunc func(ctx context.Context, token string) (*domain.Identity, error)
}

func (m *mockAuthPort) VerifyAccess(ctx context.Context, token string) (*domain.Identity, error) {
	if m.verifyAccessFunc != nil {
		return m.verifyAccessFunc(ctx, token)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthPort) Register(context.Context, string, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (m *mockAuthPort) Login(context.Context, string, string) (*domain.TokenPair, error) {
	return nil, errors.New("not implemented")
}

func (m *mockAuthPort) Refresh(context.Context, string) (*domain.TokenPair, error) {
	return nil, errors.New("not implemented")
}

func (m *mockAuthPort) GetUser(context.Context, uint) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (m *mockAuthPort) UpdateUser(context.Context, uint, domain.Changes) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

var _ auth.AuthPort = (*mockAuthPort)(nil)

func failingVerify(err error) *mockAuthPort {
	return &mockAuthPort{
		verifyAccessFunc: func(context.Context, string) (*domain.Identity, error) {
			return nil, err
		},
	}
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		mockAuth       *mockAuthPort
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "missing authorization header",
			authHeader:     "",
			mockAuth:       &mockAuthPort{},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"missing_token"`,
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic token123",
			mockAuth:       &mockAuthPort{},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"missing_token"`,
		},
		{
			name:           "bearer without token",
			authHeader:     "Bearer ",
			mockAuth:       &mockAuthPort{},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"missing_token"`,
		},
		{
			name:           "malformed token",
			authHeader:     "Bearer garbage",
			mockAuth:       failingVerify(fmt.Errorf("%w: bad signature", auth.ErrMalformedToken)),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"invalid_token"`,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer old",
			mockAuth:       failingVerify(auth.ErrExpiredToken),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"token_expired"`,
		},
		{
			name:           "refresh token where access is expected",
			authHeader:     "Bearer refresh",
			mockAuth:       failingVerify(auth.ErrWrongTokenClass),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"wrong_token_class"`,
		},
		{
			name:           "inactive user",
			authHeader:     "Bearer disabled",
			mockAuth:       failingVerify(auth.ErrInactive),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"inactive_user"`,
		},
		{
			name:           "unknown subject",
			authHeader:     "Bearer ghost",
			mockAuth:       failingVerify(auth.ErrUnknownSubject),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unknown_subject"`,
		},
		{
			name:           "infrastructure failure",
			authHeader:     "Bearer token",
			mockAuth:       failingVerify(errors.New("nats: timeout")),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"internal_error"`,
		},
		{
			name:       "valid token",
			authHeader: "bearer valid-token",
			mockAuth: &mockAuthPort{
				verifyAccessFunc: func(_ context.Context, token string) (*domain.Identity, error) {
					if token != "valid-token" {
						return nil, auth.ErrMalformedToken
					}
					return &domain.Identity{ID: 1}, nil
				},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"authenticated"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(RequireAuth(tt.mockAuth))
			app.Get("/test", func(c *fiber.Ctx) error {
				return c.JSON(fiber.Map{"status": "authenticated"})
			})

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("status = %v, want %v", resp.StatusCode, tt.expectedStatus)
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("io.ReadAll() error = %v", err)
			}
			if !strings.Contains(string(body), tt.expectedBody) {
				t.Errorf("body = %s, want to contain %s", body, tt.expectedBody)
			}
		})
	}
}

func TestRequireAuth_StoresIdentity(t *testing.T) {
	mockAuth := &mockAuthPort{
		verifyAccessFunc: func(context.Context, string) (*domain.Identity, error) {
			return &domain.Identity{ID: 456, Roles: domain.NewRoles("admin")}, nil
		},
	}

	app := fiber.New()
	app.Use(RequireAuth(mockAuth))

	var captured *domain.Identity
	app.Get("/test", func(c *fiber.Ctx) error {
		identity, ok := IdentityFrom(c)
		if !ok {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "no identity"})
		}
		captured = identity
		return c.JSON(fiber.Map{"status": "ok"})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer valid-token")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusOK)
	}
	if captured == nil {
		t.Fatal("identity not set in context")
	}
	if captured.ID != 456 {
		t.Errorf("identity.ID = %v, want %v", captured.ID, 456)
	}
	if !captured.HasRole("admin") {
		t.Errorf("identity.Roles = %v, want admin", captured.Roles)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		roles          domain.Roles
		expectedStatus int
	}{
		{"has role", domain.NewRoles("editor", "admin"), http.StatusOK},
		{"lacks role", domain.NewRoles("editor"), http.StatusForbidden},
		{"no roles", domain.Roles{}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(func(c *fiber.Ctx) error {
				c.Locals(IdentityContextKey, &domain.Identity{ID: 1, Roles: tt.roles})
				return c.Next()
			})
			app.Use(RequireRole("admin"))
			app.Get("/test", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

			resp, err := app.Test(httptest.NewRequest("GET", "/test", nil), -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("status = %v, want %v", resp.StatusCode, tt.expectedStatus)
			}
		})
	}
}

func TestRequireRole_WithoutIdentity(t *testing.T) {
	app := fiber.New()
	app.Use(RequireRole("admin"))
	app.Get("/test", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil), -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthorize(t *testing.T) {
	owner := &domain.Identity{ID: 7}

	if err := Authorize(owner, 7); err != nil {
		t.Errorf("Authorize(owner) error = %v, want nil", err)
	}
	if err := Authorize(owner, 8); !errors.Is(err, ErrForbidden) {
		t.Errorf("Authorize(other) error = %v, want %v", err, ErrForbidden)
	}
	if err := Authorize(nil, 7); !errors.Is(err, ErrForbidden) {
		t.Errorf("Authorize(nil) error = %v, want %v", err, ErrForbidden)
	}
}
