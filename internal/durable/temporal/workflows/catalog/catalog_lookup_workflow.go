package catalog

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/durable/temporal/sequences"
)

const (
	StockLookupWorkflowName   = "cart.workflows.StockLookup"
	ProductLookupWorkflowName = "cart.workflows.ProductLookup"
	// CatalogLookupTaskQueue is the queue consumed by the worker serving cart catalog lookups.
	CatalogLookupTaskQueue = "CART_CATALOG_LOOKUP"
)

// LookupInput identifies the product to look up.
type LookupInput struct {
	ProductID int64
	TraceID   string
}

// StockLookupWorkflow resolves the stock level of a product.
func StockLookupWorkflow(ctx workflow.Context, input LookupInput) (domain.Stock, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("StockLookupWorkflow started", withTraceID(input.TraceID, "productId", input.ProductID)...)
	stock, err := sequences.RunStockLookupSequence(ctx, input.ProductID)
	if err != nil {
		logger.Error("StockLookupWorkflow failed", withTraceID(input.TraceID, "productId", input.ProductID, "error", err)...)
		return domain.Stock{}, err
	}
	logger.Info("StockLookupWorkflow completed", withTraceID(input.TraceID, "productId", input.ProductID)...)
	return stock, nil
}

// ProductLookupWorkflow resolves the metadata of a product.
func ProductLookupWorkflow(ctx workflow.Context, input LookupInput) (domain.Product, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("ProductLookupWorkflow started", withTraceID(input.TraceID, "productId", input.ProductID)...)
	product, err := sequences.RunProductLookupSequence(ctx, input.ProductID)
	if err != nil {
		logger.Error("ProductLookupWorkflow failed", withTraceID(input.TraceID, "productId", input.ProductID, "error", err)...)
		return domain.Product{}, err
	}
	logger.Info("ProductLookupWorkflow completed", withTraceID(input.TraceID, "productId", input.ProductID)...)
	return product, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
