package application

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
)

// DefaultKeyPrefix is the storage key used by the storefront for its cart snapshot.
const DefaultKeyPrefix = "@RocketShoes:cart"

// snapshotItem is the persisted shape of a line item: product fields flattened next to the amount.
type snapshotItem struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	Price  decimal.Decimal `json:"price"`
	Image  string          `json:"image"`
	Amount int             `json:"amount"`
}

func encodeSnapshot(cart domain.Cart) ([]byte, error) {
	items := make([]snapshotItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, snapshotItem{
			ID:     item.ID,
			Title:  item.Title,
			Price:  item.Price,
			Image:  item.Image,
			Amount: item.Amount,
		})
	}
	return json.Marshal(items)
}

func decodeSnapshot(data []byte) (domain.Cart, error) {
	var items []snapshotItem
	if err := json.Unmarshal(data, &items); err != nil {
		return domain.Cart{}, err
	}
	cart := domain.Cart{Items: make([]domain.LineItem, 0, len(items))}
	for _, item := range items {
		cart.Items = append(cart.Items, domain.LineItem{
			Product: domain.Product{
				ID:    item.ID,
				Title: item.Title,
				Price: item.Price,
				Image: item.Image,
			},
			Amount: item.Amount,
		})
	}
	return cart, nil
}
