package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/flaskinni/inni/internal/config"
	"github.com/flaskinni/inni/internal/repositories"
	"github.com/flaskinni/inni/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthTestApp(t *testing.T) *fiber.App {
	t.Helper()
	users := repositories.NewMemoryUserStore(time.Hour)
	buzz := services.NewBuzzService(repositories.NewMemoryBuzzStore(200), nil, zap.NewNop())
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiration: time.Hour}
	identity := services.NewIdentityService(users, buzz, nil, cfg, zap.NewNop())
	require.NoError(t, identity.Bootstrap(context.Background()))

	h := NewAuthHandler(identity, zap.NewNop())
	app := fiber.New()
	app.Post("/register", h.Register)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestRegisterStatusCodes(t *testing.T) {
	app := newAuthTestApp(t)

	// Malformed email is user error, not a server fault.
	resp := postJSON(t, app, "/register", `{"email":"not-an-email","password":"password-1"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, app, "/register", `{"email":"x@y.com","password":"password-1"}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/register", `{"email":"x@y.com","password":"password-2"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
