package api

import (
	"net/http"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/store"
)

// ProductHandler exposes the catalog over HTTP.
type ProductHandler struct {
	catalog service.CatalogService
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(catalog service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// Create handles POST /products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product, err := h.catalog.Create(r.Context(), req.ToInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create product")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{
		Message: "Product created successfully",
		ID:      product.ID,
	})
}

// List handles GET /products?page=&limit=.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.catalog.List(r.Context(), parsePositiveInt(r, "page"), parsePositiveInt(r, "limit"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list products")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProductListResponse{
		Items:      productsToResponse(page.Items),
		TotalCount: page.TotalCount,
	})
}

// Search handles GET /products/search?q=.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to search products")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProductSearchResponse{
		Items: productsToResponse(items),
	})
}

// Get handles GET /products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := getPathParam(r, "id")
	if !ok {
		HandleAPIError(w, r, store.ErrProductNotFound, "")
		return
	}

	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get product")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, productToResponse(product))
}

// Update handles PUT /products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := getPathParam(r, "id")
	if !ok {
		HandleAPIError(w, r, store.ErrProductNotFound, "")
		return
	}

	var req ProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product, err := h.catalog.Update(r.Context(), id, req.ToInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update product")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{
		Message: "Product updated successfully",
		ID:      product.ID,
	})
}

// Delete handles DELETE /products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := getPathParam(r, "id")
	if !ok {
		HandleAPIError(w, r, store.ErrProductNotFound, "")
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete product")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{
		Message: "Product deleted successfully",
		ID:      id,
	})
}
