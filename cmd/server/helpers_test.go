package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                   0,
			LogLevel:               "debug",
			RequestTimeoutSeconds:  5,
			ShutdownTimeoutSeconds: 2,
			CORSAllowedOrigins:     []string{"https://shop.example"},
		},
		Database: config.DatabaseConfig{
			URI:            "mongodb://localhost:27017",
			Name:           "storefront_test",
			TimeoutSeconds: 5,
		},
		Auth: config.AuthConfig{
			JWTSecret:            "test-secret-that-is-at-least-32-chars-long",
			TokenLifetimeMinutes: 60,
			BcryptCost:           4,
		},
		Cache: config.CacheConfig{TTLMinutes: 15},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testApp struct {
	*application
	users    *mocks.MockUserStore
	products *mocks.MockProductStore
	handler  http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	users := mocks.NewMockUserStore()
	products := mocks.NewMockProductStore()

	app, err := newApplication(testConfig(), discardLogger(), appDependencies{
		UserStore:    users,
		ProductStore: products,
	})
	require.NoError(t, err)

	return &testApp{
		application: app,
		users:       users,
		products:    products,
		handler:     app.setupRouter(),
	}
}

func (a *testApp) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}
