package api

import (
	"net/http"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/store"
)

// CartHandler serves the authenticated user's cart. Every route it
// handles must sit behind AuthMiddleware.Authenticate.
type CartHandler struct {
	carts service.CartService
}

// NewCartHandler creates a CartHandler.
func NewCartHandler(carts service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// AddItem handles POST /cart.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req AddToCartRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.carts.AddItem(r.Context(), userID, req.ProductID, req.QuantityOrDefault()); err != nil {
		HandleAPIError(w, r, err, "Failed to add item to cart")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{
		Message: "Item added to cart",
	})
}

// RemoveItem handles DELETE /cart/{productId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	productID, ok := getPathParam(r, "productId")
	if !ok {
		HandleAPIError(w, r, store.ErrProductNotFound, "")
		return
	}

	if _, err := h.carts.RemoveItem(r.Context(), userID, productID); err != nil {
		HandleAPIError(w, r, err, "Failed to remove item from cart")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{
		Message: "Item removed from cart",
	})
}

// GetCart handles GET /cart.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	lines, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load cart")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cartToResponse(lines))
}
