package store

import (
	"context"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// ProductStore defines the interface for catalog persistence.
type ProductStore interface {
	// Create saves a new product and assigns its ID.
	// Returns ErrProductNameExists if the name is already taken.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by ID.
	// Returns ErrProductNotFound if it does not exist or the ID is malformed.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetByName retrieves a product by exact name.
	// Returns ErrProductNotFound if it does not exist.
	GetByName(ctx context.Context, name string) (*domain.Product, error)

	// List returns up to limit products after skipping skip, in natural order.
	List(ctx context.Context, skip, limit int64) ([]*domain.Product, error)

	// Count returns the number of products in the catalog.
	Count(ctx context.Context) (int64, error)

	// Update replaces the name, description, category and price of an existing product.
	// Returns ErrProductNotFound if no product matched.
	// Returns ErrProductNameExists if the new name belongs to another product.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product by ID.
	// Returns ErrProductNotFound if no product matched.
	Delete(ctx context.Context, id string) error

	// Search returns every product whose name, description or category
	// contains query, ignoring case. An empty query matches all products.
	Search(ctx context.Context, query string) ([]*domain.Product, error)
}
