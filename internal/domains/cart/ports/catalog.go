package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
)

// ErrProductNotFound indicates the catalog does not know the product.
var ErrProductNotFound = errors.New("product not found")

// StockQuery reports the available quantity of a product (outbound/driven port).
type StockQuery interface {
	Stock(ctx context.Context, productID int64) (domain.Stock, error)
}

// ProductLookup fetches product metadata by id (outbound/driven port).
type ProductLookup interface {
	Product(ctx context.Context, productID int64) (domain.Product, error)
}

// Catalog groups both catalog collaborators, which are usually served by the same backend.
type Catalog interface {
	StockQuery
	ProductLookup
}
