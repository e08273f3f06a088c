package catalog

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

const (
	// FetchStockActivityName reads the purchasable quantity of a product.
	FetchStockActivityName = "cart.activities.FetchStock"
	// FetchProductActivityName reads product metadata.
	FetchProductActivityName = "cart.activities.FetchProduct"
	// ProductNotFoundErrorType marks lookups for unknown products as non-retryable.
	ProductNotFoundErrorType = "ProductNotFound"
)

// Activities runs catalog lookups on behalf of cart workflows.
type Activities struct {
	catalog ports.Catalog
}

func NewActivities(catalog ports.Catalog) *Activities {
	return &Activities{catalog: catalog}
}

// FetchStock queries the stock level for productID.
func (a *Activities) FetchStock(ctx context.Context, productID int64) (domain.Stock, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.catalog == nil {
		logger.Error("catalog activities not initialized", "productId", productID)
		return domain.Stock{}, errors.New("catalog activities not initialized")
	}
	logger.Info("FetchStock activity started", "productId", productID)
	stock, err := a.catalog.Stock(ctx, productID)
	if err != nil {
		logger.Error("FetchStock activity failed", "productId", productID, "error", err)
		return domain.Stock{}, classify(err)
	}
	logger.Info("FetchStock activity completed", "productId", productID, "amount", stock.Amount)
	return stock, nil
}

// FetchProduct looks up the product metadata for productID.
func (a *Activities) FetchProduct(ctx context.Context, productID int64) (domain.Product, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.catalog == nil {
		logger.Error("catalog activities not initialized", "productId", productID)
		return domain.Product{}, errors.New("catalog activities not initialized")
	}
	logger.Info("FetchProduct activity started", "productId", productID)
	product, err := a.catalog.Product(ctx, productID)
	if err != nil {
		logger.Error("FetchProduct activity failed", "productId", productID, "error", err)
		return domain.Product{}, classify(err)
	}
	logger.Info("FetchProduct activity completed", "productId", productID)
	return product, nil
}

func classify(err error) error {
	if errors.Is(err, ports.ErrProductNotFound) {
		return temporal.NewNonRetryableApplicationError(err.Error(), ProductNotFoundErrorType, err)
	}
	return err
}
