package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sneaker(id int64, price string) Product {
	return Product{ID: id, Title: "Sneaker", Price: decimal.RequireFromString(price), Image: "https://example.com/s.jpg"}
}

func TestCart_AppendRejectsDuplicatesAndInvalidInput(t *testing.T) {
	var cart Cart
	require.NoError(t, cart.Append(sneaker(1, "10"), 1))

	require.ErrorIs(t, cart.Append(sneaker(1, "10"), 1), ErrDuplicateItem)
	require.ErrorIs(t, cart.Append(sneaker(0, "10"), 1), ErrInvalidProductID)
	require.ErrorIs(t, cart.Append(sneaker(2, "10"), 0), ErrInvalidAmount)
	assert.Equal(t, 1, cart.Size())
}

func TestCart_SetAmount(t *testing.T) {
	cart := NewCart(LineItem{Product: sneaker(1, "10"), Amount: 1})

	require.NoError(t, cart.SetAmount(1, 4))
	assert.Equal(t, 4, cart.AmountOf(1))
	require.ErrorIs(t, cart.SetAmount(2, 1), ErrItemNotFound)
	require.ErrorIs(t, cart.SetAmount(1, 0), ErrInvalidAmount)
	assert.Equal(t, 0, cart.AmountOf(2))
}

func TestCart_RemoveKeepsOthersInOrder(t *testing.T) {
	cart := NewCart(
		LineItem{Product: sneaker(1, "10"), Amount: 1},
		LineItem{Product: sneaker(2, "20"), Amount: 2},
		LineItem{Product: sneaker(3, "30"), Amount: 3},
	)
	original := cart.Clone()

	require.NoError(t, cart.Remove(2))
	require.Len(t, cart.Items, 2)
	assert.Equal(t, int64(1), cart.Items[0].ID)
	assert.Equal(t, int64(3), cart.Items[1].ID)
	require.ErrorIs(t, cart.Remove(2), ErrItemNotFound)

	// the clone taken before removal is untouched
	require.Len(t, original.Items, 3)
	assert.Equal(t, int64(2), original.Items[1].ID)
}

func TestCart_CloneIsIndependent(t *testing.T) {
	cart := NewCart(LineItem{Product: sneaker(1, "10"), Amount: 1})
	clone := cart.Clone()

	require.NoError(t, clone.SetAmount(1, 5))
	assert.Equal(t, 1, cart.AmountOf(1))
}

func TestCart_Totals(t *testing.T) {
	cart := NewCart(
		LineItem{Product: sneaker(1, "179.90"), Amount: 2},
		LineItem{Product: sneaker(2, "99.99"), Amount: 1},
	)

	assert.True(t, decimal.RequireFromString("359.80").Equal(cart.Items[0].Subtotal()))
	assert.True(t, decimal.RequireFromString("459.79").Equal(cart.Total()))
	assert.Equal(t, 2, cart.Size())
	assert.True(t, decimal.Zero.Equal(Cart{}.Total()))
}

func TestNotification_FixedMessages(t *testing.T) {
	n := NewNotification(KindOutOfStock, 7)
	assert.Equal(t, "Requested quantity is out of stock", n.Message)
	assert.Equal(t, int64(7), n.ProductID)
	assert.Equal(t, "Failed to add product", KindAddFailed.Message())
	assert.Equal(t, "Failed to remove product", KindRemoveFailed.Message())
	assert.Equal(t, "Failed to update product amount", KindUpdateFailed.Message())
}
