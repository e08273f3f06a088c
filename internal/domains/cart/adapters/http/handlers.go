package carthttp

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/storefront-cart/internal/domains/cart/adapters/http/mapper"
	"github.com/Apurer/storefront-cart/internal/domains/cart/adapters/notification"
	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
	apierrors "github.com/Apurer/storefront-cart/internal/shared/errors"
)

const defaultHeartbeat = 15 * time.Second

// API wires HTTP transport with the cart provider.
type API struct {
	provider  ports.Provider
	responder *apierrors.ChainedResponder
	logger    *slog.Logger
	heartbeat time.Duration
}

type Option func(*API)

func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.logger = logger
	}
}

// WithHeartbeat sets the interval of keep-alive events on the cart event stream.
func WithHeartbeat(d time.Duration) Option {
	return func(a *API) {
		if d > 0 {
			a.heartbeat = d
		}
	}
}

func NewAPI(provider ports.Provider, opts ...Option) *API {
	api := &API{
		provider:  provider,
		responder: apierrors.NewChainedResponder("", mapCartError),
		logger:    slog.Default(),
		heartbeat: defaultHeartbeat,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// Register mounts the cart routes on r.
func (api *API) Register(r gin.IRouter) {
	carts := r.Group("/v1/carts")
	carts.POST("", api.CreateCart)
	carts.GET("/:cartId", api.GetCart)
	carts.GET("/:cartId/events", api.Events)
	carts.POST("/:cartId/items", api.AddItem)
	carts.PUT("/:cartId/items/:productId", api.UpdateItem)
	carts.DELETE("/:cartId/items/:productId", api.RemoveItem)
}

// Post /v1/carts
// Allocates a new cart id
func (api *API) CreateCart(c *gin.Context) {
	c.JSON(http.StatusCreated, mapper.CreatedCart{CartID: api.provider.NewCartID()})
}

// Get /v1/carts/:cartId
func (api *API) GetCart(c *gin.Context) {
	svc, ok := api.service(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, mapper.FromCart(svc.Cart(c.Request.Context())))
}

// Post /v1/carts/:cartId/items
// Adds one unit of a product
func (api *API) AddItem(c *gin.Context) {
	var payload mapper.AddItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	svc, ok := api.service(c)
	if !ok {
		return
	}
	ctx, inbox := notification.WithInbox(c.Request.Context())
	svc.AddProduct(ctx, payload.ProductID)
	api.respondMutation(c, svc, inbox)
}

// Put /v1/carts/:cartId/items/:productId
// Sets the amount of a product already in the cart
func (api *API) UpdateItem(c *gin.Context) {
	productID, ok := api.productID(c)
	if !ok {
		return
	}
	var payload mapper.UpdateAmountRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	svc, ok := api.service(c)
	if !ok {
		return
	}
	ctx, inbox := notification.WithInbox(c.Request.Context())
	svc.UpdateProductAmount(ctx, productID, *payload.Amount)
	api.respondMutation(c, svc, inbox)
}

// Delete /v1/carts/:cartId/items/:productId
func (api *API) RemoveItem(c *gin.Context) {
	productID, ok := api.productID(c)
	if !ok {
		return
	}
	svc, ok := api.service(c)
	if !ok {
		return
	}
	ctx, inbox := notification.WithInbox(c.Request.Context())
	svc.RemoveProduct(ctx, productID)
	api.respondMutation(c, svc, inbox)
}

// Get /v1/carts/:cartId/events
// Streams the cart after every committed mutation as server-sent events
func (api *API) Events(c *gin.Context) {
	svc, ok := api.service(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	updates := make(chan domain.Cart, 1)
	unsubscribe := svc.Subscribe(func(cart domain.Cart) {
		// Keep only the latest cart for slow readers.
		for {
			select {
			case updates <- cart:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("cart", mapper.FromCart(svc.Cart(ctx)))
	c.Writer.Flush()

	heartbeat := time.NewTicker(api.heartbeat)
	defer heartbeat.Stop()

	api.logger.LogAttrs(ctx, slog.LevelDebug, "cart event stream opened", slog.String("cart.id", c.Param("cartId")))
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case cart := <-updates:
			c.SSEvent("cart", mapper.FromCart(cart))
			return true
		case now := <-heartbeat.C:
			c.SSEvent("heartbeat", now.UTC().Format(time.RFC3339))
			return true
		}
	})
	api.logger.LogAttrs(ctx, slog.LevelDebug, "cart event stream closed", slog.String("cart.id", c.Param("cartId")))
}

func (api *API) service(c *gin.Context) (ports.Service, bool) {
	svc, err := api.provider.Get(c.Request.Context(), c.Param("cartId"))
	if err != nil {
		if !errors.Is(err, ports.ErrInvalidCartID) {
			api.logger.LogAttrs(c.Request.Context(), slog.LevelError, "failed to open cart",
				slog.String("cart.id", c.Param("cartId")), slog.String("error", err.Error()))
		}
		api.responder.RespondError(c, err)
		return nil, false
	}
	return svc, true
}

func (api *API) productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || id <= 0 {
		api.responder.ValidationFailed(c, map[string]string{"productId": "must be a positive integer"})
		return 0, false
	}
	return id, true
}

// respondMutation answers 200 with the cart, or a problem carrying the first notification and the cart.
func (api *API) respondMutation(c *gin.Context, svc ports.Service, inbox *notification.Inbox) {
	cart := mapper.FromCart(svc.Cart(c.Request.Context()))
	notes := inbox.Notifications()
	if len(notes) == 0 {
		c.JSON(http.StatusOK, mapper.MutationResult{Cart: cart, Notifications: []mapper.Notification{}})
		return
	}
	first := notes[0]
	api.responder.Respond(c, problemFor(first.Kind).
		WithDetail(first.Message).
		WithExtension("notification", mapper.FromNotification(first)).
		WithExtension("notifications", mapper.FromNotifications(notes)).
		WithExtension("cart", cart))
}

func problemFor(kind domain.NotificationKind) apierrors.ProblemDetail {
	if kind == domain.KindOutOfStock {
		return apierrors.ErrOutOfStock
	}
	return apierrors.ErrCartOperationFailed
}

func mapCartError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, ports.ErrInvalidCartID) {
		return apierrors.NewValidationProblem(map[string]string{"cartId": "must be a UUID"}), true
	}
	return apierrors.ProblemDetail{}, false
}
