// Package notification provides sinks for user-facing cart notifications.
package notification

import (
	"context"
	"log/slog"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

// Logger writes every notification to a structured logger.
type Logger struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogger logs notifications at warn level.
func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger, level: slog.LevelWarn}
}

func (l *Logger) Notify(ctx context.Context, n domain.Notification) {
	l.logger.LogAttrs(ctx, l.level, n.Message,
		slog.String("notification.kind", string(n.Kind)),
		slog.Int64("product.id", n.ProductID),
	)
}

// Fanout delivers each notification to every sink in order.
type Fanout []ports.Notifier

func (f Fanout) Notify(ctx context.Context, n domain.Notification) {
	for _, sink := range f {
		if sink != nil {
			sink.Notify(ctx, n)
		}
	}
}

var (
	_ ports.Notifier = (*Logger)(nil)
	_ ports.Notifier = Fanout(nil)
)
