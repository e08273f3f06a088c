package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/storefront-cart/internal/app/api"
	catalogworkflows "github.com/Apurer/storefront-cart/internal/durable/temporal/workflows/catalog"
	platformobservability "github.com/Apurer/storefront-cart/internal/platform/observability"
	catalogactivities "github.com/Apurer/storefront-cart/internal/platform/temporal/activities/catalog"
)

func main() {
	ctx := context.Background()
	const serviceName = "storefront-cart-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := api.LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cfg.TemporalDisabled = false
	temporalClient, err := api.ConnectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	catalogActivities := catalogactivities.NewActivities(api.BuildCatalog(ctx, cfg, logger))

	w := worker.New(temporalClient, catalogworkflows.CatalogLookupTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(catalogworkflows.StockLookupWorkflow, workflow.RegisterOptions{Name: catalogworkflows.StockLookupWorkflowName})
	w.RegisterWorkflowWithOptions(catalogworkflows.ProductLookupWorkflow, workflow.RegisterOptions{Name: catalogworkflows.ProductLookupWorkflowName})
	w.RegisterActivityWithOptions(catalogActivities.FetchStock, activity.RegisterOptions{Name: catalogactivities.FetchStockActivityName})
	w.RegisterActivityWithOptions(catalogActivities.FetchProduct, activity.RegisterOptions{Name: catalogactivities.FetchProductActivityName})

	logger.Info("worker listening", slog.String("taskQueue", catalogworkflows.CatalogLookupTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
