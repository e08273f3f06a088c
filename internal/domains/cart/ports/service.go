package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
)

// ErrInvalidCartID is returned by the provider for ids that are not UUIDs.
var ErrInvalidCartID = errors.New("cart id is invalid")

// Service exposes the cart use cases to adapters (inbound/driving port).
// Mutations report problems through the Notifier only; they never return errors.
type Service interface {
	Cart(ctx context.Context) domain.Cart
	AddProduct(ctx context.Context, productID int64)
	RemoveProduct(ctx context.Context, productID int64)
	UpdateProductAmount(ctx context.Context, productID int64, amount int)
	// Subscribe registers fn to receive the cart after every committed mutation.
	Subscribe(fn func(domain.Cart)) (unsubscribe func())
}

// Provider hands out one opened cart service per cart id.
type Provider interface {
	Get(ctx context.Context, cartID string) (Service, error)
	NewCartID() string
}
