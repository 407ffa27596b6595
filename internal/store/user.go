package store

import (
	"context"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user and assigns its ID.
	// The user MUST already carry a HashedPassword.
	// Returns ErrUsernameExists if the username is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist or the ID is malformed.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByUsername retrieves a user by exact username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// UpsertCartLine sets the quantity of line.ProductID in the user's cart,
	// appending the line when the product is not yet present.
	// Returns ErrUserNotFound if the user does not exist.
	UpsertCartLine(ctx context.Context, userID string, line domain.CartLine) error

	// RemoveCartLine removes the line for productID and returns the remaining cart.
	// Removing an absent product is not an error.
	// Returns ErrUserNotFound if the user does not exist.
	RemoveCartLine(ctx context.Context, userID, productID string) ([]domain.CartLine, error)
}
