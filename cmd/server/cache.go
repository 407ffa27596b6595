package main

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/platform/cache"
	"github.com/phrazzld/storefront-api/internal/redact"
	"github.com/phrazzld/storefront-api/internal/service"
)

// setupProductCache returns the Redis-backed product cache behind a circuit
// breaker, or a no-op cache when Redis is not configured or unreachable.
// The returned client is nil whenever the no-op cache is used.
func setupProductCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.ProductCache, *redis.Client) {
	if !cfg.Cache.Enabled() {
		logger.Info("Product cache disabled")
		return cache.NoopCache{}, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.Cache)
	if err != nil {
		logger.Warn("Redis unavailable, product cache disabled", redact.Attr(err))
		return cache.NoopCache{}, nil
	}

	logger.Info("Product cache enabled", "ttl", cfg.Cache.TTL().String())
	redisCache := cache.NewRedisProductCache(client, cfg.Cache.TTL())
	return cache.NewBreakerCache(redisCache, cache.DefaultBreakerSettings(), logger), client
}
