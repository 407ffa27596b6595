// Package main runs the storefront HTTP API: user accounts, the product
// catalog and per-user carts backed by MongoDB.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		stop()
		log.Fatalf("Storefront API failed: %v", err)
	}
}

// run wires configuration, logging, storage and the HTTP server, and blocks
// until ctx is cancelled or the server fails.
func run(ctx context.Context) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	client, db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	productCache, redisClient := setupProductCache(ctx, cfg, logger)
	userStore, productStore := newMongoStores(db, cfg, logger)

	app, err := newApplication(cfg, logger, appDependencies{
		MongoClient:  client,
		RedisClient:  redisClient,
		UserStore:    userStore,
		ProductStore: productStore,
		ProductCache: productCache,
	})
	if err != nil {
		closeClients(context.Background(), logger, client, redisClient)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
