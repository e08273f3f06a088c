package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	cartdomain "github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	cartports "github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

const tracerName = "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/observability/service"

// Service decorates a cart service with tracing, logging, and metrics.
type Service struct {
	inner   cartports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps a cart service.
func New(inner cartports.Service, opts ...Option) cartports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

// Decorator returns a func suitable for application.WithDecorator.
func Decorator(opts ...Option) func(cartports.Service) cartports.Service {
	return func(inner cartports.Service) cartports.Service {
		return New(inner, opts...)
	}
}

func (s *Service) Cart(ctx context.Context) cartdomain.Cart {
	ctx, span := s.tracer.Start(ctx, "CartService.Cart")
	defer span.End()

	cart := s.inner.Cart(ctx)
	span.SetAttributes(attribute.Int("cart.size", cart.Size()))
	return cart
}

func (s *Service) AddProduct(ctx context.Context, productID int64) {
	ctx, span := s.tracer.Start(ctx, "CartService.AddProduct", trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer span.End()

	s.logInfo(ctx, "adding product to cart", slog.Int64("product.id", productID))
	s.inner.AddProduct(ctx, productID)
	s.metrics.recordOperation(ctx, "add")
}

func (s *Service) RemoveProduct(ctx context.Context, productID int64) {
	ctx, span := s.tracer.Start(ctx, "CartService.RemoveProduct", trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer span.End()

	s.logInfo(ctx, "removing product from cart", slog.Int64("product.id", productID))
	s.inner.RemoveProduct(ctx, productID)
	s.metrics.recordOperation(ctx, "remove")
}

func (s *Service) UpdateProductAmount(ctx context.Context, productID int64, amount int) {
	ctx, span := s.tracer.Start(ctx, "CartService.UpdateProductAmount",
		trace.WithAttributes(attribute.Int64("product.id", productID), attribute.Int("product.amount", amount)))
	defer span.End()

	s.logInfo(ctx, "updating product amount", slog.Int64("product.id", productID), slog.Int("product.amount", amount))
	s.inner.UpdateProductAmount(ctx, productID, amount)
	s.metrics.recordOperation(ctx, "update")
}

func (s *Service) Subscribe(fn func(cartdomain.Cart)) func() {
	return s.inner.Subscribe(fn)
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

type serviceMetrics struct {
	operations metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	operations, _ := m.Int64Counter("cart.service.operations", metric.WithDescription("Number of cart mutations requested"))
	return serviceMetrics{operations: operations}
}

func (m serviceMetrics) recordOperation(ctx context.Context, op string) {
	if m.operations != nil {
		m.operations.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.operation", op)))
	}
}

var _ cartports.Service = (*Service)(nil)
