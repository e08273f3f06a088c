package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/storefront-cart/internal/app/api"
	cartpostgres "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/storefront-cart/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	db, cleanup := platformpostgres.ConnectDSN(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge carts")
	}

	cutoff := time.Now().Add(-cfg.SnapshotTTL)
	purged, err := cartpostgres.NewSnapshotStore(db).PurgeOlderThan(ctx, cutoff)
	if err != nil {
		log.Fatalf("failed to purge carts: %v", err)
	}
	logger.Info("cart purge completed", slog.Int64("purged", purged), slog.Time("cutoff", cutoff))
}
