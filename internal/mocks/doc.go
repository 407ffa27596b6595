// Package mocks provides centralized mock implementations for testing.
//
// Stores default to an in-memory implementation that honours the same
// contracts as the MongoDB stores (uniqueness, cart upsert semantics), so
// service and HTTP tests can run whole flows without a database. Every method
// can be overridden through its Fn field.
//
// Usage:
//
//	users := mocks.NewMockUserStore()
//	users.GetByUsernameFn = func(ctx context.Context, username string) (*domain.User, error) {
//	    return nil, store.ErrStorageFailure
//	}
//
// ProductCache is a testify/mock mock for asserting cache interactions.
package mocks
