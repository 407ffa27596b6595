package main

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/platform/mongodb"
	"github.com/phrazzld/storefront-api/internal/store"
)

// setupAppDatabase connects to MongoDB and makes sure the unique indexes exist.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	client, err := mongodb.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	db := client.Database(cfg.Database.Name)

	indexCtx, cancel := context.WithTimeout(ctx, cfg.Database.OperationTimeout())
	defer cancel()
	if err := mongodb.EnsureIndexes(indexCtx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	logger.Info("Database connection established", "database", cfg.Database.Name)
	return client, db, nil
}

// newMongoStores builds the document-backed stores.
func newMongoStores(db *mongo.Database, cfg *config.Config, logger *slog.Logger) (store.UserStore, store.ProductStore) {
	timeout := cfg.Database.OperationTimeout()
	users := mongodb.NewMongoUserStore(db.Collection(mongodb.UsersCollection), timeout, logger)
	products := mongodb.NewMongoProductStore(db.Collection(mongodb.ProductsCollection), timeout, logger)
	return users, products
}
