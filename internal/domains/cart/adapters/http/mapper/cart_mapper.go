package mapper

import (
	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
)

// LineItem is the HTTP representation of one cart line. Money is rendered with two decimals.
type LineItem struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Amount   int    `json:"amount"`
	Subtotal string `json:"subtotal"`
}

// Cart is the HTTP cart view.
type Cart struct {
	Items []LineItem `json:"items"`
	Size  int        `json:"size"`
	Total string     `json:"total"`
}

// Notification mirrors a user-facing cart notification.
type Notification struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	ProductID int64  `json:"productId"`
}

// MutationResult is returned by mutations that completed without a notification.
type MutationResult struct {
	Cart          Cart           `json:"cart"`
	Notifications []Notification `json:"notifications"`
}

// CreatedCart is returned by POST /v1/carts.
type CreatedCart struct {
	CartID string `json:"cartId"`
}

// AddItemRequest is the body of POST /v1/carts/:cartId/items.
type AddItemRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
}

// UpdateAmountRequest is the body of PUT /v1/carts/:cartId/items/:productId.
// Non-positive amounts are accepted and ignored by the cart.
type UpdateAmountRequest struct {
	Amount *int `json:"amount" binding:"required"`
}

func FromCart(cart domain.Cart) Cart {
	items := make([]LineItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, LineItem{
			ID:       item.ID,
			Title:    item.Title,
			Price:    item.Price.StringFixed(2),
			Image:    item.Image,
			Amount:   item.Amount,
			Subtotal: item.Subtotal().StringFixed(2),
		})
	}
	return Cart{
		Items: items,
		Size:  cart.Size(),
		Total: cart.Total().StringFixed(2),
	}
}

func FromNotification(n domain.Notification) Notification {
	return Notification{Kind: string(n.Kind), Message: n.Message, ProductID: n.ProductID}
}

func FromNotifications(ns []domain.Notification) []Notification {
	out := make([]Notification, 0, len(ns))
	for _, n := range ns {
		out = append(out, FromNotification(n))
	}
	return out
}
