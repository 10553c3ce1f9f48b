package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/event-planner/config"
	"github.com/example/event-planner/database"
	categorydomain "github.com/example/event-planner/domain/category"
	eventdomain "github.com/example/event-planner/domain/event"
	domain "github.com/example/event-planner/domain/user"
	"github.com/example/event-planner/modules/audit"
	"github.com/example/event-planner/modules/auth"
	"github.com/example/event-planner/modules/category"
	"github.com/example/event-planner/modules/event"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-password"
)

// newTestApp wires the real services behind the router on a temp SQLite file.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "api.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, db.AutoMigrate(&domain.User{}, &categorydomain.Category{}, &eventdomain.Event{}))

	cfg := config.Default()
	codec, err := auth.NewTokenCodec(cfg.JWT)
	require.NoError(t, err)

	authService := auth.NewAuthService(auth.NewUserRepository(db), auth.NewPasswordHasherWithCost(bcrypt.MinCost), codec)
	_, err = authService.SeedAdmin(t.Context(), adminEmail, adminPassword)
	require.NoError(t, err)

	categories := category.NewService(category.NewRepository(db), nil)

	return NewRouter(Ports{
		Auth:       authService,
		Categories: categories,
		Events:     event.NewService(event.NewRepository(db), categories),
		Activity:   audit.NewTrail(10).Port(),
	}, RouterOptions{DisableRequestLog: true})
}

type client struct {
	t   *testing.T
	app *fiber.App
}

func (c client) do(method, path, token string, body any) (int, []byte) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), "body: %s", data)
	return v
}

func (c client) register(email, password string) {
	c.t.Helper()
	status, body := c.do("POST", "/register", "", RegisterRequest{Email: email, Password: password})
	require.Equal(c.t, http.StatusOK, status, "body: %s", body)
}

func (c client) login(email, password string) TokenResponse {
	c.t.Helper()
	status, body := c.do("POST", "/login", "", LoginRequest{Email: email, Password: password})
	require.Equal(c.t, http.StatusOK, status, "body: %s", body)
	return decode[TokenResponse](c.t, body)
}

func (c client) me(token string) ProfileResponse {
	c.t.Helper()
	status, body := c.do("GET", "/me", token, nil)
	require.Equal(c.t, http.StatusOK, status, "body: %s", body)
	return decode[ProfileResponse](c.t, body)
}

func TestScenario_RegisterLoginListEvents(t *testing.T) {
	c := client{t: t, app: newTestApp(t)}

	status, body := c.do("POST", "/register", "", RegisterRequest{Email: "a@x.io", Password: "pw"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "usuario creado", decode[MessageResponse](t, body).Msg)

	status, body = c.do("POST", "/register", "", RegisterRequest{Email: "a@x.io", Password: "other"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email already in use", decode[MessageResponse](t, body).Msg)

	tokens := c.login("a@x.io", "pw")
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "Bearer", tokens.TokenType)

	status, body = c.do("GET", "/events", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	status, body = c.do("POST", "/login", "", LoginRequest{Email: "a@x.io", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.CodeInvalidCredentials, decode[ErrorResponse](t, body).Error)

	status, body = c.do("POST", "/login", "", LoginRequest{Email: "nobody@x.io", Password: "pw"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.CodeInvalidCredentials, decode[ErrorResponse](t, body).Error)
}

func TestScenario_RegisterValidation(t *testing.T) {
	c := client{t: t, app: newTestApp(t)}

	status, _ := c.do("POST", "/register", "", RegisterRequest{Email: "a@x.io"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := c.do("POST", "/register", "", RegisterRequest{Email: "long@x.io", Password: string(bytes.Repeat([]byte("p"), 73))})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decode[MessageResponse](t, body).Msg, "72")

	status, _ = c.do("POST", "/login", "", LoginRequest{Email: "a@x.io"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestScenario_OwnershipIsEnforced(t *testing.T) {
	c := client{t: t, app: newTestApp(t)}

	c.register("a@x.io", "pw-a")
	c.register("b@x.io", "pw-b")
	tokenA := c.login("a@x.io", "pw-a").AccessToken
	tokenB := c.login("b@x.io", "pw-b").AccessToken

	status, body := c.do("POST", "/events", tokenA, eventdomain.Input{Title: "A's party"})
	require.Equal(t, http.StatusCreated, status, "body: %s", body)
	created := decode[eventdomain.Event](t, body)
	assert.Equal(t, c.me(tokenA).ID, created.UserID)

	path := fmt.Sprintf("/events/%d", created.ID)

	status, _ = c.do("GET", path, tokenB, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = c.do("PUT", path, tokenB, eventdomain.Input{Title: "Hijacked"})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = c.do("DELETE", path, tokenB, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = c.do("GET", "/events", tokenB, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	status, body = c.do("PUT", path, tokenA, eventdomain.Input{Title: "A's big party", Location: "Park"})
	require.Equal(t, http.StatusOK, status, "body: %s", body)
	assert.Equal(t, "Park", decode[eventdomain.Event](t, body).Location)

	status, _ = c.do("DELETE", path, tokenA, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = c.do("GET", path, tokenA, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = c.do("GET", "/events/not-a-number", tokenA, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestScenario_DeactivationRevokesOutstandingTokens(t *testing.T) {
	c := client{t: t, app: newTestApp(t)}

	c.register("a@x.io", "pw")
	userTokens := c.login("a@x.io", "pw")
	userID := c.me(userTokens.AccessToken).ID
	adminToken := c.login(adminEmail, adminPassword).AccessToken

	inactive := false
	status, body := c.do("PATCH", fmt.Sprintf("/admin/users/%d", userID), adminToken, UpdateUserRequest{IsActive: &inactive})
	require.Equal(t, http.StatusOK, status, "body: %s", body)
	assert.False(t, decode[ProfileResponse](t, body).IsActive)

	status, body = c.do("GET", "/events", userTokens.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.CodeInactive, decode[ErrorResponse](t, body).Error)

	status, body = c.do("POST", "/refresh", userTokens.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.CodeInactive, decode[ErrorResponse](t, body).Error)

	status, body = c.do("POST", "/login", "", LoginRequest{Email: "a@x.io", Password: "pw"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.CodeInactive, decode[ErrorResponse](t, body).Error)
}

func TestScenario_TokenClasses(t *testing.T) {
	c := client{t: t, app: newTestApp(t)}

	c.register("a@x.io", "pw")
	tokens := c.login("a@x.io", "pw")

	status, body := c.do("GET", "/events", tokens.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.CodeWrongTokenClass, decode[ErrorResponse](t, body).Error)

	status, body = c.do("POST", "/refresh", tokens.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.CodeWrongTokenClass, decode[ErrorResponse](t, body).Error)

	status, body = c.do("POST", "/refresh", "", map[string]string{"refresh_token": tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, status, "refresh token in the body is ignored")
	assert.Equal(t, codeMissingToken, decode[ErrorResponse](t, body).Error)

	status, body = c.do("POST", "/refresh", tokens.RefreshToken, nil)
	require.Equal(t, http.StatusOK, status, "body: %s", body)
	refreshed := decode[TokenResponse](t, body)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Empty(t, refreshed.RefreshToken)

	status, _ = c.do("GET", "/events", refreshed.AccessToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = c.do("GET", "/events", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, codeMissingToken, decode[ErrorResponse](t, body).Error)

	status, body = c.do("GET", "/events", "not.a.jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.CodeMalformedToken, decode[ErrorResponse](t, body).Error)
}

func TestScenario_AdminRoutes(t *testing.T) {
	c := client{t: t, app: newTestApp(t)}

	c.register("a@x.io", "pw")
	userToken := c.login("a@x.io", "pw").AccessToken
	userID := c.me(userToken).ID
	adminToken := c.login(adminEmail, adminPassword).AccessToken

	status, _ := c.do("GET", "/admin/activity", userToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = c.do("PATCH", fmt.Sprintf("/admin/users/%d", userID), userToken, UpdateUserRequest{})
	assert.Equal(t, http.StatusForbidden, status)

	status, body := c.do("GET", "/admin/activity", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"entries":[]}`, string(body))

	status, _ = c.do("PATCH", "/admin/users/9999", adminToken, UpdateUserRequest{Roles: &[]string{}})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = c.do("PATCH", fmt.Sprintf("/admin/users/%d", userID), adminToken, UpdateUserRequest{})
	assert.Equal(t, http.StatusBadRequest, status)

	// A role granted after issuance applies to the token already held.
	status, body = c.do("PATCH", fmt.Sprintf("/admin/users/%d", userID), adminToken, UpdateUserRequest{Roles: &[]string{"admin"}})
	require.Equal(t, http.StatusOK, status, "body: %s", body)
	assert.Equal(t, []string{"admin"}, decode[ProfileResponse](t, body).Roles)

	status, _ = c.do("GET", "/admin/activity", userToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestScenario_Categories(t *testing.T) {
	c := client{t: t, app: newTestApp(t)}

	status, body := c.do("GET", "/categories", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	status, _ = c.do("POST", "/categories", "", categorydomain.Input{Description: "no name"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = c.do("POST", "/categories", "", categorydomain.Input{Name: "Music"})
	require.Equal(t, http.StatusCreated, status)
	created := decode[categorydomain.Category](t, body)

	status, body = c.do("GET", fmt.Sprintf("/categories/%d", created.ID), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Music", decode[categorydomain.Category](t, body).Name)

	status, _ = c.do("GET", "/categories/999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	c.register("a@x.io", "pw")
	token := c.login("a@x.io", "pw").AccessToken

	missing := uint(999)
	status, _ = c.do("POST", "/events", token, eventdomain.Input{Title: "Gig", CategoryID: &missing})
	assert.Equal(t, http.StatusBadRequest, status)

	startsAt := time.Date(2026, 7, 1, 20, 0, 0, 0, time.UTC)
	status, body = c.do("POST", "/events", token, eventdomain.Input{Title: "Gig", CategoryID: &created.ID, StartsAt: &startsAt})
	require.Equal(t, http.StatusCreated, status, "body: %s", body)
	e := decode[eventdomain.Event](t, body)
	require.NotNil(t, e.CategoryID)
	assert.Equal(t, created.ID, *e.CategoryID)

	status, _ = c.do("POST", "/events", token, eventdomain.Input{})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestScenario_Health(t *testing.T) {
	c := client{t: t, app: newTestApp(t)}

	status, body := c.do("GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "healthy")
}
