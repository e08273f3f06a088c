package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	cataloghttp "github.com/Apurer/storefront-cart/internal/domains/catalog/adapters/http"
	catalogmemory "github.com/Apurer/storefront-cart/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/storefront-cart/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/storefront-cart/internal/domains/catalog/application"
	catalogports "github.com/Apurer/storefront-cart/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-cart/internal/platform/migrations"
	platformobservability "github.com/Apurer/storefront-cart/internal/platform/observability"
	platformpostgres "github.com/Apurer/storefront-cart/internal/platform/postgres"
	apierrors "github.com/Apurer/storefront-cart/internal/shared/errors"
)

const serviceName = "storefront-catalog-api"

// Run boots the catalog HTTP API serving stock levels and product metadata.
func Run(ctx context.Context) error {
	cfg := LoadConfig()
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

	repo, persistent, cleanupRepo := buildRepository(ctx, cfg, logger)
	defer cleanupRepo()
	service := catalogapp.NewService(repo)
	if !persistent || cfg.SeedOnStart {
		if err := service.Seed(ctx, catalogapp.DefaultSeed()); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		logger.Info("catalog seeded", slog.Int("products", len(catalogapp.DefaultSeed())))
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           NewRouter(service),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("catalog API listening", slog.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("catalog API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// NewRouter builds the gin engine serving the catalog API.
func NewRouter(service *catalogapp.Service) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.NoRoute(func(c *gin.Context) {
		apierrors.DefaultResponder.NotFound(c, "route", c.Request.URL.Path)
	})
	cataloghttp.NewAPI(service).Register(router)
	return router
}

func buildRepository(ctx context.Context, cfg Config, logger *slog.Logger) (catalogports.Repository, bool, func()) {
	db, cleanup := platformpostgres.ConnectDSN(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return catalogmemory.NewRepository(), false, func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate postgres, falling back to memory", slog.String("error", err.Error()))
		cleanup()
		return catalogmemory.NewRepository(), false, func() {}
	}
	logger.Info("catalog repository configured with postgres")
	return catalogpostgres.NewRepository(db), true, cleanup
}
