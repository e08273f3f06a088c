package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductID = errors.New("product id must be positive")
	ErrEmptyTitle       = errors.New("product title is required")
	ErrNegativePrice    = errors.New("product price must not be negative")
	ErrNegativeStock    = errors.New("stock amount must not be negative")
)

// Product is a sellable catalog entry.
type Product struct {
	ID    int64
	Title string
	Price decimal.Decimal
	Image string
}

// Validate checks the catalog invariants for a product.
func (p Product) Validate() error {
	if p.ID <= 0 {
		return ErrInvalidProductID
	}
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// StockLevel is the maximum quantity of a product that can be purchased.
type StockLevel struct {
	ProductID int64
	Amount    int
}

func (s StockLevel) Validate() error {
	if s.ProductID <= 0 {
		return ErrInvalidProductID
	}
	if s.Amount < 0 {
		return ErrNegativeStock
	}
	return nil
}

// Entry pairs a product with its stock level for seeding.
type Entry struct {
	Product Product
	Stock   int
}
