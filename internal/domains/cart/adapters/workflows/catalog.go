package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
	catalogworkflows "github.com/Apurer/storefront-cart/internal/durable/temporal/workflows/catalog"
	catalogactivities "github.com/Apurer/storefront-cart/internal/platform/temporal/activities/catalog"
)

var _ ports.Catalog = (*TemporalCatalog)(nil)

// DefaultTimeout bounds one lookup, including the wait for a worker to pick it up.
const DefaultTimeout = 5 * time.Second

// TemporalCatalog answers stock and product queries by running lookup workflows on a Temporal cluster.
type TemporalCatalog struct {
	client    client.Client
	taskQueue string
	timeout   time.Duration
}

type Option func(*TemporalCatalog)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(t *TemporalCatalog) {
		if d > 0 {
			t.timeout = d
		}
	}
}

func NewTemporalCatalog(c client.Client, opts ...Option) *TemporalCatalog {
	t := &TemporalCatalog{client: c, taskQueue: catalogworkflows.CatalogLookupTaskQueue, timeout: DefaultTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

func (t *TemporalCatalog) Stock(ctx context.Context, productID int64) (domain.Stock, error) {
	var stock domain.Stock
	if err := t.execute(ctx, "stock", catalogworkflows.StockLookupWorkflowName, productID, &stock); err != nil {
		return domain.Stock{}, err
	}
	return stock, nil
}

func (t *TemporalCatalog) Product(ctx context.Context, productID int64) (domain.Product, error) {
	var product domain.Product
	if err := t.execute(ctx, "product", catalogworkflows.ProductLookupWorkflowName, productID, &product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// execute runs the lookup workflow and waits for its result, at most for the configured timeout.
// Workflow ids derive from the trace, so a duplicate lookup within one request joins the running one.
func (t *TemporalCatalog) execute(ctx context.Context, kind, workflowName string, productID int64, result any) error {
	if t == nil || t.client == nil {
		return errors.New("temporal catalog not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:                       workflowID(kind, productID, traceComponent),
		TaskQueue:                t.taskQueue,
		WorkflowExecutionTimeout: t.timeout,
	}
	run, err := t.client.ExecuteWorkflow(ctx, options, workflowName,
		catalogworkflows.LookupInput{ProductID: productID, TraceID: traceComponent})
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return err
		}
		run = t.client.GetWorkflow(ctx, options.ID, alreadyStarted.RunId)
	}
	if err := run.Get(ctx, result); err != nil {
		return mapWorkflowError(err)
	}
	return nil
}

func workflowID(kind string, productID int64, traceComponent string) string {
	return fmt.Sprintf("cart-%s-%d-%s", kind, productID, traceComponent)
}

func mapWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) && appErr.Type() == catalogactivities.ProductNotFoundErrorType {
		return fmt.Errorf("%w: %w", ports.ErrProductNotFound, err)
	}
	return err
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return "untraced-" + uuid.NewString()
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
