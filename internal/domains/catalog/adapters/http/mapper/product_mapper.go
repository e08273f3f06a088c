package mapper

import (
	"encoding/json"

	"github.com/Apurer/storefront-cart/internal/domains/catalog/domain"
)

// Product is the wire shape served by GET /products/:id.
type Product struct {
	ID    int64       `json:"id"`
	Title string      `json:"title"`
	Price json.Number `json:"price"`
	Image string      `json:"image"`
}

// Stock is the wire shape served by GET /stock/:id.
type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

func FromProduct(p domain.Product) Product {
	return Product{
		ID:    p.ID,
		Title: p.Title,
		Price: json.Number(p.Price.StringFixed(2)),
		Image: p.Image,
	}
}

func FromProductList(products []domain.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, FromProduct(p))
	}
	return out
}

func FromStock(s domain.StockLevel) Stock {
	return Stock{ID: s.ProductID, Amount: s.Amount}
}
