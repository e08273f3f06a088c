package domain

// NotificationKind enumerates the user-facing outcomes a cart operation can report.
type NotificationKind string

const (
	KindOutOfStock   NotificationKind = "out_of_stock"
	KindAddFailed    NotificationKind = "add_failed"
	KindRemoveFailed NotificationKind = "remove_failed"
	KindUpdateFailed NotificationKind = "update_failed"
)

var messages = map[NotificationKind]string{
	KindOutOfStock:   "Requested quantity is out of stock",
	KindAddFailed:    "Failed to add product",
	KindRemoveFailed: "Failed to remove product",
	KindUpdateFailed: "Failed to update product amount",
}

// Message returns the fixed text shown to the user.
func (k NotificationKind) Message() string {
	return messages[k]
}

// Notification is a message surfaced to the user after a cart operation.
type Notification struct {
	Kind      NotificationKind
	Message   string
	ProductID int64
}

// NewNotification builds the notification for kind with its fixed message.
func NewNotification(kind NotificationKind, productID int64) Notification {
	return Notification{Kind: kind, Message: kind.Message(), ProductID: productID}
}

// Stock is the externally reported available quantity of a product.
type Stock struct {
	ProductID int64
	Amount    int
}
