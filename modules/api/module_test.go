package api

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/event-planner/config"
	"github.com/example/event-planner/database"
	eventdomain "github.com/example/event-planner/domain/event"
	"github.com/example/event-planner/modules/audit"
	"github.com/example/event-planner/modules/auth"
	"github.com/example/event-planner/modules/cache"
	"github.com/example/event-planner/modules/category"
	"github.com/example/event-planner/modules/event"
	"github.com/go-monolith/mono"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// routedAPIModule is the API module with the router served through app.Test
// instead of a listening socket. Dependency wiring is the real module's.
type routedAPIModule struct {
	*APIModule
}

func (m *routedAPIModule) Start(_ context.Context) error {
	m.app = NewRouter(m.ports, RouterOptions{DisableRequestLog: true})
	return nil
}

func (m *routedAPIModule) Stop(_ context.Context) error {
	return nil
}

// newMonoApp starts every module inside a mono application, so requests go
// through the adapters and the request-reply services.
func newMonoApp(t *testing.T) client {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "mono.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	cfg := config.Default()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.AdminEmail = adminEmail
	cfg.AdminPassword = adminPassword

	app, err := mono.NewMonoApplication(
		mono.WithLogLevel(mono.LogLevelError),
	)
	require.NoError(t, err)

	require.NoError(t, app.RegisterPlugin(cache.NewPluginModule("", "category:", cfg.CacheTTL), "cache"))

	apiModule := &routedAPIModule{APIModule: NewModule(cfg)}
	require.NoError(t, app.Register(auth.NewModule(cfg, db)))
	require.NoError(t, app.Register(category.NewModule(db)))
	require.NoError(t, app.Register(event.NewModule(db)))
	require.NoError(t, app.Register(audit.NewModule(audit.DefaultCapacity)))
	require.NoError(t, app.Register(apiModule))

	require.NoError(t, app.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = app.Stop(ctx)
	})

	require.IsType(t, &auth.AuthAdapter{}, apiModule.ports.Auth)
	require.IsType(t, &event.EventAdapter{}, apiModule.ports.Events)
	require.IsType(t, &category.CategoryAdapter{}, apiModule.ports.Categories)
	require.IsType(t, &audit.AuditAdapter{}, apiModule.ports.Activity)

	return client{t: t, app: apiModule.app}
}

func TestModules_RequestsCrossServiceContainer(t *testing.T) {
	c := newMonoApp(t)

	c.register("a@x.io", "pw-a")
	c.register("b@x.io", "pw-b")

	status, body := c.do("POST", "/register", "", RegisterRequest{Email: "a@x.io", Password: "again"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email already in use", decode[MessageResponse](t, body).Msg)

	status, body = c.do("POST", "/login", "", LoginRequest{Email: "a@x.io", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.CodeInvalidCredentials, decode[ErrorResponse](t, body).Error)

	tokensA := c.login("a@x.io", "pw-a")
	tokenB := c.login("b@x.io", "pw-b").AccessToken

	status, body = c.do("GET", "/events", tokensA.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.CodeWrongTokenClass, decode[ErrorResponse](t, body).Error)

	status, body = c.do("POST", "/refresh", tokensA.RefreshToken, nil)
	require.Equal(t, http.StatusOK, status, "body: %s", body)

	missing := uint(404)
	status, _ = c.do("POST", "/events", tokensA.AccessToken, eventdomain.Input{Title: "Gig", CategoryID: &missing})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = c.do("POST", "/events", tokensA.AccessToken, eventdomain.Input{Title: "Gig"})
	require.Equal(t, http.StatusCreated, status, "body: %s", body)
	created := decode[eventdomain.Event](t, body)
	path := fmt.Sprintf("/events/%d", created.ID)

	status, _ = c.do("GET", path, tokenB, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = c.do("GET", "/events/9999", tokensA.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = c.do("GET", "/categories/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = c.do("DELETE", path, tokensA.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, status)

	adminToken := c.login(adminEmail, adminPassword).AccessToken
	inactive := false
	userID := c.me(tokensA.AccessToken).ID
	status, body = c.do("PATCH", fmt.Sprintf("/admin/users/%d", userID), adminToken, UpdateUserRequest{IsActive: &inactive})
	require.Equal(t, http.StatusOK, status, "body: %s", body)

	status, body = c.do("GET", "/events", tokensA.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, auth.CodeInactive, decode[ErrorResponse](t, body).Error)

	status, _ = c.do("PATCH", "/admin/users/9999", adminToken, UpdateUserRequest{IsActive: &inactive})
	assert.Equal(t, http.StatusNotFound, status)

	// Bus events reach the audit trail asynchronously.
	wantKinds := []string{audit.KindUserRegistered, audit.KindEventCreated, audit.KindEventDeleted, audit.KindUserUpdated}
	deadline := time.Now().Add(5 * time.Second)
	for {
		status, body := c.do("GET", "/admin/activity", adminToken, nil)
		require.Equal(t, http.StatusOK, status)

		seen := map[string]bool{}
		for _, e := range decode[ActivityResponse](t, body).Entries {
			seen[e.Kind] = true
		}
		missingKinds := []string{}
		for _, kind := range wantKinds {
			if !seen[kind] {
				missingKinds = append(missingKinds, kind)
			}
		}
		if len(missingKinds) == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("activity never recorded %v", missingKinds)
		}
		time.Sleep(50 * time.Millisecond)
	}
}
