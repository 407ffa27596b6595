package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/platform/cache"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
)

// appDependencies are the externally constructed resources the application
// is built from. The clients may be nil when the stores are not backed by them.
type appDependencies struct {
	MongoClient  *mongo.Client
	RedisClient  *redis.Client
	UserStore    store.UserStore
	ProductStore store.ProductStore
	ProductCache service.ProductCache
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	mongoClient *mongo.Client
	redisClient *redis.Client

	userStore    store.UserStore
	productStore store.ProductStore
	productCache service.ProductCache

	jwtService     auth.JWTService
	passwordHasher auth.PasswordHasher

	authService    service.AuthService
	catalogService service.CatalogService
	cartService    service.CartService
}

// newApplication builds the services on top of deps.
func newApplication(cfg *config.Config, logger *slog.Logger, deps appDependencies) (*application, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if deps.UserStore == nil || deps.ProductStore == nil {
		return nil, errors.New("user and product stores are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	app := &application{
		config:       cfg,
		logger:       logger,
		mongoClient:  deps.MongoClient,
		redisClient:  deps.RedisClient,
		userStore:    deps.UserStore,
		productStore: deps.ProductStore,
		productCache: deps.ProductCache,
	}
	if app.productCache == nil {
		app.productCache = cache.NoopCache{}
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordHasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	app.authService = service.NewAuthService(app.userStore, app.passwordHasher, app.jwtService, logger)
	app.catalogService = service.NewCatalogService(app.productStore, app.productCache, logger)
	app.cartService = service.NewCartService(app.userStore, app.productStore, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down and releases
// the storage clients.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the storage clients.
func (app *application) cleanup(ctx context.Context) {
	closeClients(ctx, app.logger, app.mongoClient, app.redisClient)
	app.logger.Info("Application shutdown completed")
}

func closeClients(ctx context.Context, logger *slog.Logger, mongoClient *mongo.Client, redisClient *redis.Client) {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing redis client", "error", err)
		}
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error("Error closing database connection", "error", err)
		}
	}
}
