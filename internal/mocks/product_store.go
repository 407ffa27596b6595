package mocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

// MockProductStore implements store.ProductStore for testing.
// The default implementation keeps products in insertion order.
type MockProductStore struct {
	CreateFn    func(ctx context.Context, product *domain.Product) error
	GetByIDFn   func(ctx context.Context, id string) (*domain.Product, error)
	GetByNameFn func(ctx context.Context, name string) (*domain.Product, error)
	ListFn      func(ctx context.Context, skip, limit int64) ([]*domain.Product, error)
	CountFn     func(ctx context.Context) (int64, error)
	UpdateFn    func(ctx context.Context, product *domain.Product) error
	DeleteFn    func(ctx context.Context, id string) error
	SearchFn    func(ctx context.Context, query string) ([]*domain.Product, error)

	mu       sync.Mutex
	products []*domain.Product

	// GetByIDCalls counts default GetByID invocations.
	GetByIDCalls int
}

var _ store.ProductStore = (*MockProductStore)(nil)

// NewMockProductStore creates an empty in-memory product store.
func NewMockProductStore() *MockProductStore {
	return &MockProductStore{}
}

func cloneProduct(p *domain.Product) *domain.Product {
	c := *p
	return &c
}

func (m *MockProductStore) indexOf(id string) int {
	for i, p := range m.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Create implements the ProductStore interface
func (m *MockProductStore) Create(ctx context.Context, product *domain.Product) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, product)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.products {
		if p.Name == product.Name {
			return store.ErrProductNameExists
		}
	}
	product.ID = NewID()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	product.UpdatedAt = product.CreatedAt
	m.products = append(m.products, cloneProduct(product))
	return nil
}

// GetByID implements the ProductStore interface
func (m *MockProductStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetByIDCalls++

	if i := m.indexOf(id); i >= 0 {
		return cloneProduct(m.products[i]), nil
	}
	return nil, store.ErrProductNotFound
}

// GetByName implements the ProductStore interface
func (m *MockProductStore) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.products {
		if p.Name == name {
			return cloneProduct(p), nil
		}
	}
	return nil, store.ErrProductNotFound
}

// List implements the ProductStore interface
func (m *MockProductStore) List(ctx context.Context, skip, limit int64) ([]*domain.Product, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, skip, limit)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*domain.Product{}
	for i := skip; i < int64(len(m.products)) && (limit <= 0 || int64(len(out)) < limit); i++ {
		out = append(out, cloneProduct(m.products[i]))
	}
	return out, nil
}

// Count implements the ProductStore interface
func (m *MockProductStore) Count(ctx context.Context) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.products)), nil
}

// Update implements the ProductStore interface
func (m *MockProductStore) Update(ctx context.Context, product *domain.Product) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, product)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(product.ID)
	if i < 0 {
		return store.ErrProductNotFound
	}
	for _, p := range m.products {
		if p.Name == product.Name && p.ID != product.ID {
			return store.ErrProductNameExists
		}
	}
	m.products[i] = cloneProduct(product)
	return nil
}

// Delete implements the ProductStore interface
func (m *MockProductStore) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return store.ErrProductNotFound
	}
	m.products = append(m.products[:i], m.products[i+1:]...)
	return nil
}

// Search implements the ProductStore interface
func (m *MockProductStore) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, query)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	q := strings.ToLower(query)
	out := []*domain.Product{}
	for _, p := range m.products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}
