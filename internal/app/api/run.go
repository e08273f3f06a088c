package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	catalogclient "github.com/Apurer/storefront-cart/internal/clients/http/catalog"
	cartcatalog "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/external/catalog"
	cartmemory "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/memory"
	"github.com/Apurer/storefront-cart/internal/domains/cart/adapters/notification"
	cartobs "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/observability"
	cartfile "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/persistence/file"
	cartpostgres "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/persistence/postgres"
	cartredis "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/persistence/redis"
	cartworkflows "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/workflows"
	cartapp "github.com/Apurer/storefront-cart/internal/domains/cart/application"
	cartports "github.com/Apurer/storefront-cart/internal/domains/cart/ports"
	catalogmemory "github.com/Apurer/storefront-cart/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/storefront-cart/internal/domains/catalog/application"
	"github.com/Apurer/storefront-cart/internal/platform/migrations"
	platformobservability "github.com/Apurer/storefront-cart/internal/platform/observability"
	platformpostgres "github.com/Apurer/storefront-cart/internal/platform/postgres"
)

const serviceName = "storefront-cart-api"

// Run boots the cart HTTP API with observability, snapshot storage, and catalog lookups wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	snapshots, cleanupSnapshots := BuildSnapshotStore(ctx, cfg, logger)
	defer cleanupSnapshots()

	var catalog cartports.Catalog = BuildCatalog(ctx, cfg, logger)
	if temporalClient, err := ConnectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running catalog lookups inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		catalog = cartworkflows.NewTemporalCatalog(temporalClient, cartworkflows.WithTimeout(cfg.CatalogTimeout))
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	meter := instruments.Meter("internal.cart.application")
	notifier := notification.Fanout{
		cartobs.NewNotifier(notification.NewLogger(logger), meter),
		notification.ContextSink{},
	}
	provider := cartapp.NewProvider(catalog, catalog, snapshots,
		cartapp.WithKeyPrefix(cfg.SnapshotKeyPrefix),
		cartapp.WithStoreOptions(cartapp.WithNotifier(notifier), cartapp.WithLogger(logger)),
		cartapp.WithDecorator(cartobs.Decorator(
			cartobs.WithLogger(logger),
			cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
			cartobs.WithMeter(meter),
		)),
		cartapp.WithProviderLogger(logger),
		cartapp.WithIdleTimeout(cfg.CartIdleTimeout),
		cartapp.WithMaxCarts(cfg.MaxOpenCarts),
	)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           NewRouter(serviceName, provider, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("cart API listening", slog.String("addr", server.Addr), slog.String("snapshotBackend", cfg.SnapshotBackend))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("cart API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// BuildSnapshotStore selects the snapshot backend from cfg, falling back to memory when it is unreachable.
func BuildSnapshotStore(ctx context.Context, cfg Config, logger *slog.Logger) (cartports.SnapshotStore, func()) {
	switch cfg.SnapshotBackend {
	case BackendFile:
		store, err := cartfile.NewSnapshotStore(cfg.SnapshotDir)
		if err != nil {
			logger.Warn("failed to open snapshot directory, falling back to memory", slog.String("error", err.Error()))
			return cartmemory.NewSnapshotStore(), func() {}
		}
		logger.Info("cart snapshots stored on disk", slog.String("dir", cfg.SnapshotDir))
		return store, func() {}
	case BackendPostgres:
		db, cleanup := platformpostgres.ConnectDSN(ctx, cfg.PostgresDSN, logger)
		if db == nil {
			return cartmemory.NewSnapshotStore(), func() {}
		}
		if err := migrations.Run(db); err != nil {
			logger.Warn("failed to migrate postgres, falling back to memory", slog.String("error", err.Error()))
			cleanup()
			return cartmemory.NewSnapshotStore(), func() {}
		}
		logger.Info("cart snapshots stored in postgres")
		return cartpostgres.NewSnapshotStore(db), cleanup
	case BackendRedis:
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("failed to connect to redis, falling back to memory", slog.String("error", err.Error()))
			_ = rdb.Close()
			return cartmemory.NewSnapshotStore(), func() {}
		}
		logger.Info("cart snapshots stored in redis", slog.String("addr", cfg.RedisAddr), slog.Duration("ttl", cfg.SnapshotTTL))
		return cartredis.NewSnapshotStore(rdb, cfg.SnapshotTTL), func() { _ = rdb.Close() }
	default:
		logger.Info("cart snapshots kept in memory")
		return cartmemory.NewSnapshotStore(), func() {}
	}
}

// BuildCatalog answers stock and product queries through CATALOG_BASE_URL, or an in-process seeded catalog when unset.
func BuildCatalog(ctx context.Context, cfg Config, logger *slog.Logger) cartports.Catalog {
	if cfg.CatalogBaseURL != "" {
		httpClient := &http.Client{Timeout: cfg.CatalogTimeout}
		catalogClient, err := catalogclient.NewCatalogClient(cfg.CatalogBaseURL, httpClient)
		if err == nil {
			logger.Info("catalog lookups use remote API", slog.String("baseUrl", cfg.CatalogBaseURL))
			return cartcatalog.NewHTTPGateway(catalogClient)
		}
		logger.Warn("failed to build catalog client, using local catalog", slog.String("error", err.Error()))
	} else {
		logger.Warn("CATALOG_BASE_URL not set, using local seeded catalog")
	}
	service := catalogapp.NewService(catalogmemory.NewRepository())
	if err := service.Seed(ctx, catalogapp.DefaultSeed()); err != nil {
		logger.Error("failed to seed local catalog", slog.String("error", err.Error()))
	}
	return cartcatalog.NewLocalGateway(service)
}

// ConnectTemporalClient dials Temporal with tracing and structured logging unless disabled.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
