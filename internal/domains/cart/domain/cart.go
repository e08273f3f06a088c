package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrItemNotFound     = errors.New("product is not in the cart")
	ErrDuplicateItem    = errors.New("product is already in the cart")
)

// Product carries the catalog metadata copied into a line item. The cart never interprets it.
type Product struct {
	ID    int64
	Title string
	Price decimal.Decimal
	Image string
}

// LineItem is one product entry in the cart with its amount.
type LineItem struct {
	Product
	Amount int
}

// Subtotal is price times amount.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Amount)))
}

// Cart is the ordered list of line items, in insertion order. At most one item per product id.
type Cart struct {
	Items []LineItem
}

// NewCart builds a cart from the given items without validating them.
func NewCart(items ...LineItem) Cart {
	return Cart{Items: append([]LineItem{}, items...)}
}

// Clone returns a deep copy so mutations never leak into the original.
func (c Cart) Clone() Cart {
	return Cart{Items: append(make([]LineItem, 0, len(c.Items)), c.Items...)}
}

// Index returns the position of the product or -1.
func (c Cart) Index(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ID == productID {
			return i
		}
	}
	return -1
}

// Find returns the line item for the product, if present.
func (c Cart) Find(productID int64) (LineItem, bool) {
	idx := c.Index(productID)
	if idx < 0 {
		return LineItem{}, false
	}
	return c.Items[idx], true
}

// AmountOf returns the amount held for the product, 0 when absent.
func (c Cart) AmountOf(productID int64) int {
	item, ok := c.Find(productID)
	if !ok {
		return 0
	}
	return item.Amount
}

// Append adds a new line item at the end of the cart.
func (c *Cart) Append(product Product, amount int) error {
	if product.ID <= 0 {
		return ErrInvalidProductID
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if c.Index(product.ID) >= 0 {
		return ErrDuplicateItem
	}
	c.Items = append(c.Items, LineItem{Product: product, Amount: amount})
	return nil
}

// SetAmount overwrites the amount of an existing line item.
func (c *Cart) SetAmount(productID int64, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	idx := c.Index(productID)
	if idx < 0 {
		return ErrItemNotFound
	}
	c.Items[idx].Amount = amount
	return nil
}

// Remove deletes the line item for the product, keeping the order of the others.
func (c *Cart) Remove(productID int64) error {
	idx := c.Index(productID)
	if idx < 0 {
		return ErrItemNotFound
	}
	c.Items = append(c.Items[:idx:idx], c.Items[idx+1:]...)
	return nil
}

// Size counts distinct products.
func (c Cart) Size() int {
	return len(c.Items)
}

// Total sums every line item subtotal.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}
