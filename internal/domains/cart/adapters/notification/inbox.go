package notification

import (
	"context"
	"sync"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

type inboxKey struct{}

// Inbox collects the notifications emitted while serving one request.
type Inbox struct {
	mu    sync.Mutex
	items []domain.Notification
}

// WithInbox attaches a fresh Inbox to ctx.
func WithInbox(ctx context.Context) (context.Context, *Inbox) {
	inbox := &Inbox{}
	return context.WithValue(ctx, inboxKey{}, inbox), inbox
}

// InboxFrom returns the Inbox attached to ctx, if any.
func InboxFrom(ctx context.Context) (*Inbox, bool) {
	inbox, ok := ctx.Value(inboxKey{}).(*Inbox)
	return inbox, ok && inbox != nil
}

func (i *Inbox) add(n domain.Notification) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.items = append(i.items, n)
}

// Notifications returns a copy of what was collected so far.
func (i *Inbox) Notifications() []domain.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]domain.Notification(nil), i.items...)
}

// ContextSink routes notifications into the Inbox carried by the context. Without one they are dropped.
type ContextSink struct{}

func (ContextSink) Notify(ctx context.Context, n domain.Notification) {
	if inbox, ok := InboxFrom(ctx); ok {
		inbox.add(n)
	}
}

var _ ports.Notifier = ContextSink{}
