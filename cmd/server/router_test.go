package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/storefront-api/internal/api"
	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/mocks"
	"github.com/phrazzld/storefront-api/internal/service/auth"
)

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestStorefrontScenario(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	rr := app.do(t, http.MethodPost, "/users/register", `{"username":"alice","password":"pw1"}`, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = app.do(t, http.MethodPost, "/users/register", `{"username":"alice","password":"pw2"}`, "")
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, 1, app.users.Count())

	rr = app.do(t, http.MethodPost, "/users/login", `{"username":"alice","password":"pw1"}`, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	login := decode[api.LoginResponse](t, rr)
	require.NotEmpty(t, login.Token)
	expiresAt, err := time.Parse(time.RFC3339, login.ExpiresAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	rr = app.do(t, http.MethodPost, "/users/login", `{"username":"alice","password":"wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = app.do(t, http.MethodPost, "/products", `{"name":"Widget","price":"9.99"}`, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	widgetID := decode[shared.MessageResponse](t, rr).ID
	require.NotEmpty(t, widgetID)

	rr = app.do(t, http.MethodPost, "/products", `{"name":"Widget","price":"9.99"}`, "")
	require.Equal(t, http.StatusConflict, rr.Code)

	rr = app.do(t, http.MethodPost, "/cart", `{"productId":"`+widgetID+`","quantity":2}`, login.Token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	alice, err := app.users.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, alice.Cart, 1)
	assert.Equal(t, widgetID, alice.Cart[0].ProductID)
	assert.Equal(t, 2, alice.Cart[0].Quantity)

	rr = app.do(t, http.MethodDelete, "/cart/"+widgetID, "", login.Token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	alice, err = app.users.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, alice.Cart)
}

func TestCartRejectsForeignAndExpiredTokens(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	otherCfg := testConfig().Auth
	otherCfg.JWTSecret = "a-completely-different-secret-of-32-chars"
	foreign, err := auth.NewJWTService(otherCfg)
	require.NoError(t, err)
	foreignToken, _, err := foreign.GenerateToken(context.Background(), "64b7f0c2a1b2c3d4e5f60718")
	require.NoError(t, err)

	rr := app.do(t, http.MethodGet, "/cart", "", foreignToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = app.do(t, http.MethodGet, "/cart", "", "not-a-jwt")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = app.do(t, http.MethodGet, "/cart", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	rr := app.do(t, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	rr := app.do(t, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	app.handler.ServeHTTP(rr, req)

	assert.Equal(t, "https://shop.example", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr = httptest.NewRecorder()
	app.handler.ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterWithoutRequestTimeout(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Server.RequestTimeoutSeconds = 0
	app, err := newApplication(cfg, discardLogger(), appDependencies{
		UserStore:    mocks.NewMockUserStore(),
		ProductStore: mocks.NewMockProductStore(),
	})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	app.setupRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
