package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/storefront-api/internal/api/middleware"
	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/mocks"
	"github.com/phrazzld/storefront-api/internal/platform/cache"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/service/auth"
)

// tokenPrefix marks test bearer tokens; the rest of the token is the user id.
const tokenPrefix = "user:"

var testExpiry = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	users    *mocks.MockUserStore
	products *mocks.MockProductStore
	hasher   *mocks.MockPasswordHasher
	jwt      *mocks.MockJWTService
	router   http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:    mocks.NewMockUserStore(),
		products: mocks.NewMockProductStore(),
		hasher:   &mocks.MockPasswordHasher{},
		jwt: &mocks.MockJWTService{
			Token:     "test-token",
			ExpiresAt: testExpiry,
			ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
				id, ok := strings.CutPrefix(token, tokenPrefix)
				if !ok {
					return nil, auth.ErrInvalidToken
				}
				return &auth.Claims{UserID: id}, nil
			},
		},
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	authService := service.NewAuthService(env.users, env.hasher, env.jwt, log)
	catalog := service.NewCatalogService(env.products, cache.NoopCache{}, log)
	carts := service.NewCartService(env.users, env.products, log)

	authHandler := NewAuthHandler(authService)
	productHandler := NewProductHandler(catalog)
	cartHandler := NewCartHandler(carts)
	authMiddleware := middleware.NewAuthMiddleware(env.jwt)

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware(log))
	r.Post("/users/register", authHandler.Register)
	r.Post("/users/login", authHandler.Login)
	r.Route("/products", func(r chi.Router) {
		r.Post("/", productHandler.Create)
		r.Get("/", productHandler.List)
		r.Get("/search", productHandler.Search)
		r.Get("/{id}", productHandler.Get)
		r.Put("/{id}", productHandler.Update)
		r.Delete("/{id}", productHandler.Delete)
	})
	r.Route("/cart", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Post("/", cartHandler.AddItem)
		r.Get("/", cartHandler.GetCart)
		r.Delete("/{productId}", cartHandler.RemoveItem)
	})
	env.router = r

	return env
}

// do sends a request through the router. An empty token sends no
// Authorization header.
func (e *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
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
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) seedUser(t *testing.T, username, password string) string {
	t.Helper()

	u := &domain.User{Username: username, HashedPassword: "hashed:" + password}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u.ID
}

func (e *testEnv) seedProduct(t *testing.T, name, description, category string, price float64) string {
	t.Helper()

	p, err := domain.NewProduct(name, description, category, price)
	require.NoError(t, err)
	require.NoError(t, e.products.Create(context.Background(), p))
	return p.ID
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[shared.ErrorResponse](t, rr).Message
}
