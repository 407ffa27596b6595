package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/store"
	"golang.org/x/sync/singleflight"
)

// Pagination defaults applied when the caller gives no usable value.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ProductCache is the read-through cache consulted by CatalogService.Get.
// Get returns an error for any miss; the service falls through to the store.
type ProductCache interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
	Set(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}

// ProductInput holds the client-supplied fields of a product.
type ProductInput struct {
	Name        string
	Description string
	Category    string
	Price       float64
}

// ProductPage is one page of the catalog.
type ProductPage struct {
	Items      []*domain.Product
	TotalCount int64
	Page       int
	Limit      int
}

// CatalogService manages the product catalog.
type CatalogService interface {
	// Create adds a product. Returns store.ErrProductNameExists for a taken name.
	Create(ctx context.Context, in ProductInput) (*domain.Product, error)

	// List returns a page of products in natural order along with the total
	// catalog size. Values below 1 fall back to DefaultPage and DefaultLimit.
	List(ctx context.Context, page, limit int) (*ProductPage, error)

	// Get returns a single product. Returns store.ErrProductNotFound if absent.
	Get(ctx context.Context, id string) (*domain.Product, error)

	// Update replaces all mutable fields. Returns store.ErrProductNotFound if
	// absent and store.ErrProductNameExists if another product owns the name.
	Update(ctx context.Context, id string, in ProductInput) (*domain.Product, error)

	// Delete removes a product. Returns store.ErrProductNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Search returns every product whose name, description or category
	// contains q, ignoring case.
	Search(ctx context.Context, q string) ([]*domain.Product, error)
}

type catalogServiceImpl struct {
	products store.ProductStore
	cache    ProductCache
	group    singleflight.Group
	logger   *slog.Logger

	// fillMu orders cache fills against invalidations. generation is bumped
	// by every invalidation; a load only fills the cache if no invalidation
	// happened since it started reading the store.
	fillMu     sync.Mutex
	generation uint64
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(products store.ProductStore, cache ProductCache, logger *slog.Logger) CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &catalogServiceImpl{
		products: products,
		cache:    cache,
		logger:   logger.With("component", "catalog_service"),
	}
}

// NormalizePage applies the pagination defaults.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit
}

// Create implements CatalogService.
func (s *catalogServiceImpl) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	product, err := domain.NewProduct(in.Name, in.Description, in.Category, in.Price)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameAvailable(ctx, in.Name, ""); err != nil {
		return nil, s.wrap("create", err)
	}

	if err := s.products.Create(ctx, product); err != nil {
		if errors.Is(err, store.ErrProductNameExists) {
			return nil, store.ErrProductNameExists
		}
		log.Error("failed to create product", "error", err, "name", in.Name)
		return nil, s.wrap("create", err)
	}

	log.Info("product created", "product_id", product.ID)
	return product, nil
}

// List implements CatalogService.
func (s *catalogServiceImpl) List(ctx context.Context, page, limit int) (*ProductPage, error) {
	page, limit = NormalizePage(page, limit)
	skip := int64(page-1) * int64(limit)

	items, err := s.products.List(ctx, skip, int64(limit))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list products", "error", err)
		return nil, s.wrap("list", err)
	}

	total, err := s.products.Count(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count products", "error", err)
		return nil, s.wrap("list", err)
	}

	return &ProductPage{Items: items, TotalCount: total, Page: page, Limit: limit}, nil
}

// Get implements CatalogService.
func (s *catalogServiceImpl) Get(ctx context.Context, id string) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if cached, err := s.cache.Get(ctx, id); err == nil {
		return cached, nil
	}

	// The load is shared by concurrent callers and ignores the first caller's
	// cancellation; the store applies its own timeout.
	loadCtx := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do(id, func() (interface{}, error) {
		gen := s.currentGeneration()
		product, err := s.products.GetByID(loadCtx, id)
		if err != nil {
			return nil, err
		}
		s.fill(loadCtx, product, gen)
		return product, nil
	})
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, store.ErrProductNotFound
		}
		log.Error("failed to load product", "error", err, "product_id", id)
		return nil, s.wrap("get", err)
	}
	if shared {
		log.Debug("product load shared with concurrent caller", "product_id", id)
	}

	product := *v.(*domain.Product)
	return &product, nil
}

// Update implements CatalogService.
func (s *catalogServiceImpl) Update(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, store.ErrProductNotFound
		}
		return nil, s.wrap("update", err)
	}

	if in.Name != product.Name {
		if err := s.ensureNameAvailable(ctx, in.Name, product.ID); err != nil {
			return nil, s.wrap("update", err)
		}
	}

	if err := product.Replace(in.Name, in.Description, in.Category, in.Price); err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		switch {
		case errors.Is(err, store.ErrProductNameExists):
			return nil, store.ErrProductNameExists
		case errors.Is(err, store.ErrProductNotFound):
			// Deleted between the existence check and the write.
			log.Warn("product vanished during update", "product_id", id)
			return nil, s.wrap("update", fmt.Errorf("%w: no product matched update", store.ErrStorageFailure))
		default:
			log.Error("failed to update product", "error", err, "product_id", id)
			return nil, s.wrap("update", err)
		}
	}

	s.invalidate(ctx, id)
	log.Info("product updated", "product_id", id)
	return product, nil
}

// Delete implements CatalogService.
func (s *catalogServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return store.ErrProductNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete product", "error", err, "product_id", id)
		return s.wrap("delete", err)
	}

	s.invalidate(ctx, id)
	logger.FromContextOrDefault(ctx, s.logger).Info("product deleted", "product_id", id)
	return nil
}

// Search implements CatalogService.
func (s *catalogServiceImpl) Search(ctx context.Context, q string) ([]*domain.Product, error) {
	items, err := s.products.Search(ctx, q)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to search products", "error", err)
		return nil, s.wrap("search", err)
	}
	return items, nil
}

// ensureNameAvailable returns store.ErrProductNameExists when a product other
// than selfID already uses name.
func (s *catalogServiceImpl) ensureNameAvailable(ctx context.Context, name, selfID string) error {
	existing, err := s.products.GetByName(ctx, name)
	switch {
	case errors.Is(err, store.ErrProductNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return store.ErrProductNameExists
	default:
		return nil
	}
}

func (s *catalogServiceImpl) currentGeneration() uint64 {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	return s.generation
}

// fill caches a product loaded at generation gen unless it was invalidated
// while the load was in flight.
func (s *catalogServiceImpl) fill(ctx context.Context, product *domain.Product, gen uint64) {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()

	log := logger.FromContextOrDefault(ctx, s.logger)
	if s.generation != gen {
		log.Debug("skipping cache fill for product changed during load", "product_id", product.ID)
		return
	}
	if err := s.cache.Set(ctx, product); err != nil {
		log.Warn("failed to cache product", "error", err, "product_id", product.ID)
	}
}

// invalidate must run after the store write. Bumping the generation stops
// in-flight loads from caching what they read before the write, and Forget
// keeps later callers from joining those loads.
func (s *catalogServiceImpl) invalidate(ctx context.Context, id string) {
	s.fillMu.Lock()
	s.generation++
	s.fillMu.Unlock()
	s.group.Forget(id)

	if err := s.cache.Delete(ctx, id); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to invalidate cached product",
			"error", err, "product_id", id)
	}
}

// wrap returns name conflicts unchanged and wraps everything else.
func (s *catalogServiceImpl) wrap(operation string, err error) error {
	if errors.Is(err, store.ErrProductNameExists) {
		return store.ErrProductNameExists
	}
	return NewServiceError("catalog", operation, err)
}
