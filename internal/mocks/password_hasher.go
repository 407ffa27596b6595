package mocks

import (
	"strings"

	"github.com/phrazzld/storefront-api/internal/service/auth"
)

const hashPrefix = "hashed:"

// MockPasswordHasher implements auth.PasswordHasher without bcrypt's cost.
// The default hash is the plaintext with a fixed prefix.
type MockPasswordHasher struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements auth.PasswordHasher
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return hashPrefix + password, nil
}

// Compare implements auth.PasswordVerifier
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.CompareCallCount++
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if !strings.HasPrefix(hashedPassword, hashPrefix) || hashedPassword[len(hashPrefix):] != password {
		return auth.ErrPasswordMismatch
	}
	return nil
}
