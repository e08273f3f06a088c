package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	catalogactivities "github.com/Apurer/storefront-cart/internal/platform/temporal/activities/catalog"
)

// Cart operations never retry catalog lookups; a failure surfaces as a notification.
func lookupOptions(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})
}

// RunStockLookupSequence executes the stock activity for productID.
func RunStockLookupSequence(ctx workflow.Context, productID int64) (domain.Stock, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("stock lookup sequence started", "productId", productID)

	var stock domain.Stock
	err := workflow.ExecuteActivity(lookupOptions(ctx), catalogactivities.FetchStockActivityName, productID).Get(ctx, &stock)
	if err != nil {
		logger.Error("stock lookup sequence failed", "productId", productID, "error", err)
		return domain.Stock{}, err
	}
	logger.Info("stock lookup sequence completed", "productId", productID, "amount", stock.Amount)
	return stock, nil
}

// RunProductLookupSequence executes the product activity for productID.
func RunProductLookupSequence(ctx workflow.Context, productID int64) (domain.Product, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("product lookup sequence started", "productId", productID)

	var product domain.Product
	err := workflow.ExecuteActivity(lookupOptions(ctx), catalogactivities.FetchProductActivityName, productID).Get(ctx, &product)
	if err != nil {
		logger.Error("product lookup sequence failed", "productId", productID, "error", err)
		return domain.Product{}, err
	}
	logger.Info("product lookup sequence completed", "productId", productID)
	return product, nil
}
