package ports

import (
	"context"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
)

// Notifier surfaces user-facing messages. Delivery is fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, notification domain.Notification)
}

// NoopNotifier drops every notification.
var NoopNotifier Notifier = noopNotifier{}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, domain.Notification) {}

// NotifierFunc adapts a function to the Notifier port.
type NotifierFunc func(ctx context.Context, notification domain.Notification)

func (f NotifierFunc) Notify(ctx context.Context, notification domain.Notification) {
	f(ctx, notification)
}
