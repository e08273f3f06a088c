package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	cartdomain "github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	cartports "github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

// Notifier marks the active span and counts notifications before forwarding them.
type Notifier struct {
	inner   cartports.Notifier
	emitted metric.Int64Counter
}

// NewNotifier wraps inner. A nil meter disables the counter.
func NewNotifier(inner cartports.Notifier, m metric.Meter) *Notifier {
	if inner == nil {
		inner = cartports.NoopNotifier
	}
	n := &Notifier{inner: inner}
	if m != nil {
		n.emitted, _ = m.Int64Counter("cart.notifications", metric.WithDescription("Number of user-facing cart notifications"))
	}
	return n
}

func (n *Notifier) Notify(ctx context.Context, notification cartdomain.Notification) {
	attrs := []attribute.KeyValue{
		attribute.String("notification.kind", string(notification.Kind)),
		attribute.Int64("product.id", notification.ProductID),
	}
	span := trace.SpanFromContext(ctx)
	span.AddEvent("cart.notification", trace.WithAttributes(attrs...))
	span.SetStatus(codes.Error, notification.Message)
	if n.emitted != nil {
		n.emitted.Add(ctx, 1, metric.WithAttributes(attrs[0]))
	}
	n.inner.Notify(ctx, notification)
}

var _ cartports.Notifier = (*Notifier)(nil)
