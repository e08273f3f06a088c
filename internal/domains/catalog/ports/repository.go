package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-cart/internal/domains/catalog/domain"
)

// ErrNotFound is returned when a product or its stock level does not exist.
var ErrNotFound = errors.New("catalog entry not found")

// Repository persists catalog products and stock levels.
type Repository interface {
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	GetStock(ctx context.Context, id int64) (domain.StockLevel, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	Upsert(ctx context.Context, product domain.Product, stock int) error
}
