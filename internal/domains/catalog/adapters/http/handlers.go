package cataloghttp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/storefront-cart/internal/domains/catalog/adapters/http/mapper"
	"github.com/Apurer/storefront-cart/internal/domains/catalog/application"
	"github.com/Apurer/storefront-cart/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-cart/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/storefront-cart/internal/shared/errors"
)

// API serves catalog reads over HTTP.
type API struct {
	service   *application.Service
	responder *apierrors.ChainedResponder
}

func NewAPI(service *application.Service) *API {
	return &API{
		service:   service,
		responder: apierrors.NewChainedResponder("", mapCatalogError),
	}
}

// Register mounts the catalog routes on r.
func (api *API) Register(r gin.IRouter) {
	r.GET("/products", api.ListProducts)
	r.GET("/products/:productId", api.GetProduct)
	r.GET("/stock/:productId", api.GetStock)
}

// Get /products
func (api *API) ListProducts(c *gin.Context) {
	products, err := api.service.List(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProductList(products))
}

// Get /products/:productId
func (api *API) GetProduct(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}
	product, err := api.service.Product(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			api.responder.NotFound(c, "product", id)
			return
		}
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProduct(product))
}

// Get /stock/:productId
func (api *API) GetStock(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}
	stock, err := api.service.Stock(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			api.responder.NotFound(c, "stock", id)
			return
		}
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromStock(stock))
}

func (api *API) parseID(c *gin.Context) (int64, bool) {
	raw := c.Param("productId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		api.responder.ValidationFailed(c, map[string]string{"productId": "must be a positive integer"})
		return 0, false
	}
	return id, true
}

func mapCatalogError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, domain.ErrInvalidProductID) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
