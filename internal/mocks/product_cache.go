package mocks

import (
	"context"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

// ProductCache is a testify mock of the product cache.
type ProductCache struct {
	mock.Mock
}

// Get is a mock implementation of ProductCache.Get
func (m *ProductCache) Get(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*domain.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// Set is a mock implementation of ProductCache.Set
func (m *ProductCache) Set(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// Delete is a mock implementation of ProductCache.Delete
func (m *ProductCache) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
