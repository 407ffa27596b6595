package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/store"
)

// ProductLookup resolves products from the store, never from a cache.
// store.ProductStore satisfies it.
type ProductLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// CartService maintains each user's cart as at most one line per product.
type CartService interface {
	// AddItem sets the quantity of productID in the user's cart, adding the
	// line if needed. Returns domain.ErrInvalidQuantity for quantity < 1,
	// store.ErrProductNotFound for an unknown product and
	// store.ErrUserNotFound if the user no longer exists.
	AddItem(ctx context.Context, userID, productID string, quantity int) error

	// RemoveItem drops the line for productID. Removing an absent product
	// succeeds. Returns store.ErrUserNotFound if the user no longer exists.
	RemoveItem(ctx context.Context, userID, productID string) ([]domain.CartLine, error)

	// GetCart returns the user's cart lines.
	GetCart(ctx context.Context, userID string) ([]domain.CartLine, error)
}

type cartServiceImpl struct {
	users    store.UserStore
	products ProductLookup
	logger   *slog.Logger
}

// NewCartService creates a CartService.
func NewCartService(users store.UserStore, products ProductLookup, logger *slog.Logger) CartService {
	if logger == nil {
		logger = slog.Default()
	}
	return &cartServiceImpl{
		users:    users,
		products: products,
		logger:   logger.With("component", "cart_service"),
	}
}

// AddItem implements CartService.
func (s *cartServiceImpl) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	line, err := domain.NewCartLine(productID, quantity)
	if err != nil {
		return err
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			log.Debug("add to cart for unknown product", "product_id", productID)
			return store.ErrProductNotFound
		}
		return NewServiceError("cart", "add", err)
	}

	if err := s.users.UpsertCartLine(ctx, userID, line); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return store.ErrUserNotFound
		}
		log.Error("failed to upsert cart line", "error", err, "product_id", productID)
		return NewServiceError("cart", "add", err)
	}

	log.Debug("cart line set", "product_id", productID, "quantity", quantity)
	return nil
}

// RemoveItem implements CartService.
func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, productID string) ([]domain.CartLine, error) {
	cart, err := s.users.RemoveCartLine(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, store.ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to remove cart line",
			"error", err, "product_id", productID)
		return nil, NewServiceError("cart", "remove", err)
	}
	return cart, nil
}

// GetCart implements CartService.
func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) ([]domain.CartLine, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, store.ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load cart", "error", err)
		return nil, NewServiceError("cart", "get", err)
	}
	if user.Cart == nil {
		return []domain.CartLine{}, nil
	}
	return user.Cart, nil
}
