package cache

import (
	"context"
	"errors"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
)

// ErrCacheMiss is returned by Get when the product is not cached.
var ErrCacheMiss = errors.New("cache miss")

// ProductCache is the cache contract CatalogService consumes.
type ProductCache = service.ProductCache

// NoopCache never stores anything.
type NoopCache struct{}

var _ ProductCache = NoopCache{}

// Get always misses.
func (NoopCache) Get(context.Context, string) (*domain.Product, error) { return nil, ErrCacheMiss }

// Set discards the product.
func (NoopCache) Set(context.Context, *domain.Product) error { return nil }

// Delete does nothing.
func (NoopCache) Delete(context.Context, string) error { return nil }
