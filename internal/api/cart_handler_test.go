package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/mocks"
)

func TestCartRequiresAuthentication(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{name: "add without token", method: http.MethodPost, path: "/cart", wantStatus: http.StatusUnauthorized},
		{name: "get without token", method: http.MethodGet, path: "/cart", wantStatus: http.StatusUnauthorized},
		{name: "remove without token", method: http.MethodDelete, path: "/cart/abc", wantStatus: http.StatusUnauthorized},
		{name: "add with bad token", method: http.MethodPost, path: "/cart", token: "garbage", wantStatus: http.StatusForbidden},
		{name: "get with bad token", method: http.MethodGet, path: "/cart", token: "garbage", wantStatus: http.StatusForbidden},
	}

	for _, tc := range tests {
		rr := env.do(t, tc.method, tc.path, `{"productId":"x"}`, tc.token)
		assert.Equal(t, tc.wantStatus, rr.Code, tc.name)
	}
}

func TestAddToCart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		body         string
		wantStatus   int
		wantMessage  string
		wantQuantity int
	}{
		{
			name:         "explicit quantity",
			body:         `{"productId":"%s","quantity":2}`,
			wantStatus:   http.StatusOK,
			wantQuantity: 2,
		},
		{
			name:         "quantity defaults to one",
			body:         `{"productId":"%s"}`,
			wantStatus:   http.StatusOK,
			wantQuantity: 1,
		},
		{
			name:        "zero quantity",
			body:        `{"productId":"%s","quantity":0}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Quantity must be at least 1",
		},
		{
			name:        "missing product id",
			body:        `{"quantity":1}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid productId: required field",
		},
		{
			name:        "unknown product",
			body:        `{"productId":"ffffffffffffffffffffffff"}`,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Product not found",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			userID := env.seedUser(t, "alice", "pw1")
			productID := env.seedProduct(t, "Widget", "", "", 9.99)

			body := tc.body
			if strings.Contains(body, "%s") {
				body = fmt.Sprintf(body, productID)
			}

			rr := env.do(t, http.MethodPost, "/cart", body, tokenPrefix+userID)
			require.Equal(t, tc.wantStatus, rr.Code, rr.Body.String())

			user, err := env.users.GetByID(context.Background(), userID)
			require.NoError(t, err)

			if tc.wantStatus != http.StatusOK {
				assert.Equal(t, tc.wantMessage, errorMessage(t, rr))
				assert.Empty(t, user.Cart)
				return
			}

			require.Len(t, user.Cart, 1)
			assert.Equal(t, domain.CartLine{ProductID: productID, Quantity: tc.wantQuantity}, user.Cart[0])
		})
	}
}

func TestAddToCartUpsertsLine(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := env.seedUser(t, "alice", "pw1")
	productID := env.seedProduct(t, "Widget", "", "", 9.99)
	token := tokenPrefix + userID

	for _, qty := range []string{"2", "2", "5"} {
		rr := env.do(t, http.MethodPost, "/cart", `{"productId":"`+productID+`","quantity":`+qty+`}`, token)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := env.do(t, http.MethodGet, "/cart", "", token)
	require.Equal(t, http.StatusOK, rr.Code)
	cart := decodeBody[CartResponse](t, rr)
	assert.Equal(t, []domain.CartLine{{ProductID: productID, Quantity: 5}}, cart.Items)
}

func TestAddToCartForDeletedUser(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	productID := env.seedProduct(t, "Widget", "", "", 9.99)

	rr := env.do(t, http.MethodPost, "/cart", `{"productId":"`+productID+`"}`, tokenPrefix+mocks.NewID())

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User not found", errorMessage(t, rr))
}

func TestRemoveFromCart(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := env.seedUser(t, "alice", "pw1")
	productID := env.seedProduct(t, "Widget", "", "", 9.99)
	token := tokenPrefix + userID

	// Removing something never added succeeds.
	rr := env.do(t, http.MethodDelete, "/cart/"+productID, "", token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodPost, "/cart", `{"productId":"`+productID+`","quantity":3}`, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodDelete, "/cart/"+productID, "", token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodGet, "/cart", "", token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decodeBody[CartResponse](t, rr).Items)

	// Re-adding after removal restores the line.
	rr = env.do(t, http.MethodPost, "/cart", `{"productId":"`+productID+`","quantity":3}`, token)
	require.Equal(t, http.StatusOK, rr.Code)
	user, err := env.users.GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []domain.CartLine{{ProductID: productID, Quantity: 3}}, user.Cart)
}

func TestRemoveFromCartForDeletedUser(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rr := env.do(t, http.MethodDelete, "/cart/ffffffffffffffffffffffff", "", tokenPrefix+mocks.NewID())

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User not found", errorMessage(t, rr))
}

func TestGetCartStorageFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.users.GetByIDFn = func(context.Context, string) (*domain.User, error) {
		return nil, errors.New("connection reset")
	}

	rr := env.do(t, http.MethodGet, "/cart", "", tokenPrefix+mocks.NewID())

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to load cart", errorMessage(t, rr))
}

func TestGetCartEmpty(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userID := env.seedUser(t, "alice", "pw1")

	rr := env.do(t, http.MethodGet, "/cart", "", tokenPrefix+userID)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"items":[]}`, rr.Body.String())
}
