package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/sony/gobreaker/v2"
)

// BreakerSettings tunes the circuit breaker around a cache.
type BreakerSettings struct {
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// DefaultBreakerSettings trips after five straight failures and probes after 30s.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{ConsecutiveFailures: 5, OpenTimeout: 30 * time.Second}
}

// BreakerCache guards a ProductCache with a circuit breaker. While open, Get
// reports a miss and writes are skipped, so callers fall through to the store.
// Deletes that fail are remembered and retried before the entry is read again.
type BreakerCache struct {
	next   ProductCache
	cb     *gobreaker.CircuitBreaker[*domain.Product]
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

var _ ProductCache = (*BreakerCache)(nil)

// NewBreakerCache wraps next.
func NewBreakerCache(next ProductCache, settings BreakerSettings, logger *slog.Logger) *BreakerCache {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "product_cache"))

	cb := gobreaker.NewCircuitBreaker[*domain.Product](gobreaker.Settings{
		Name:        "product-cache",
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})

	return &BreakerCache{next: next, cb: cb, logger: logger, pending: make(map[string]struct{})}
}

// State reports the breaker state.
func (b *BreakerCache) State() gobreaker.State {
	return b.cb.State()
}

// Get implements ProductCache. An entry whose delete failed is never served;
// the delete is retried instead and the call reports a miss.
func (b *BreakerCache) Get(ctx context.Context, id string) (*domain.Product, error) {
	if b.isPending(id) {
		if err := b.execDelete(ctx, id); err == nil {
			b.clearPending(id)
		}
		return nil, ErrCacheMiss
	}

	product, err := b.cb.Execute(func() (*domain.Product, error) {
		return b.next.Get(ctx, id)
	})
	if isBreakerRejection(err) {
		return nil, ErrCacheMiss
	}
	return product, err
}

// Set implements ProductCache.
func (b *BreakerCache) Set(ctx context.Context, product *domain.Product) error {
	_, err := b.cb.Execute(func() (*domain.Product, error) {
		return nil, b.next.Set(ctx, product)
	})
	if isBreakerRejection(err) {
		return nil
	}
	if err == nil {
		b.clearPending(product.ID)
	}
	return err
}

// Delete implements ProductCache. A failed or rejected delete is still
// reported so the caller can log it.
func (b *BreakerCache) Delete(ctx context.Context, id string) error {
	if err := b.execDelete(ctx, id); err != nil {
		b.markPending(id)
		return err
	}
	b.clearPending(id)
	return nil
}

func (b *BreakerCache) execDelete(ctx context.Context, id string) error {
	_, err := b.cb.Execute(func() (*domain.Product, error) {
		return nil, b.next.Delete(ctx, id)
	})
	return err
}

func (b *BreakerCache) isPending(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.pending[id]
	return ok
}

func (b *BreakerCache) markPending(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[id] = struct{}{}
}

func (b *BreakerCache) clearPending(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pending, id)
}

func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
