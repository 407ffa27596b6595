package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn         func(ctx context.Context, user *domain.User) error
	GetByIDFn        func(ctx context.Context, id string) (*domain.User, error)
	GetByUsernameFn  func(ctx context.Context, username string) (*domain.User, error)
	UpsertCartLineFn func(ctx context.Context, userID string, line domain.CartLine) error
	RemoveCartLineFn func(ctx context.Context, userID, productID string) ([]domain.CartLine, error)

	mu    sync.Mutex
	users map[string]*domain.User // keyed by ID
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Cart = append([]domain.CartLine{}, u.Cart...)
	return &c
}

// Count returns the number of stored users.
func (m *MockUserStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
	}

	user.ID = NewID()
	user.Cart = []domain.CartLine{}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = cloneUser(user)
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// GetByUsername implements the UserStore interface
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// UpsertCartLine implements the UserStore interface
func (m *MockUserStore) UpsertCartLine(ctx context.Context, userID string, line domain.CartLine) error {
	if m.UpsertCartLineFn != nil {
		return m.UpsertCartLineFn(ctx, userID, line)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	for i := range u.Cart {
		if u.Cart[i].ProductID == line.ProductID {
			u.Cart[i].Quantity = line.Quantity
			return nil
		}
	}
	u.Cart = append(u.Cart, line)
	return nil
}

// RemoveCartLine implements the UserStore interface
func (m *MockUserStore) RemoveCartLine(ctx context.Context, userID, productID string) ([]domain.CartLine, error) {
	if m.RemoveCartLineFn != nil {
		return m.RemoveCartLineFn(ctx, userID, productID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	kept := u.Cart[:0]
	for _, l := range u.Cart {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	u.Cart = kept
	return append([]domain.CartLine{}, kept...), nil
}
