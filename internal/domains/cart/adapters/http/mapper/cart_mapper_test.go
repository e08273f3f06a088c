package mapper

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
)

func TestFromCart_FormatsMoney(t *testing.T) {
	cart := domain.NewCart(
		domain.LineItem{Product: domain.Product{ID: 1, Title: "A", Price: decimal.RequireFromString("179.9")}, Amount: 2},
		domain.LineItem{Product: domain.Product{ID: 2, Title: "B", Price: decimal.RequireFromString("0.1")}, Amount: 3},
	)

	view := FromCart(cart)

	assert.Equal(t, 2, view.Size)
	assert.Equal(t, "360.10", view.Total)
	assert.Equal(t, "179.90", view.Items[0].Price)
	assert.Equal(t, "359.80", view.Items[0].Subtotal)
	assert.Equal(t, "0.30", view.Items[1].Subtotal)
}

func TestFromCart_EmptyHasNoNilItems(t *testing.T) {
	view := FromCart(domain.NewCart())
	assert.NotNil(t, view.Items)
	assert.Equal(t, "0.00", view.Total)
}
