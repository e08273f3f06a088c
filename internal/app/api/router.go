package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	carthttp "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/http"
	cartports "github.com/Apurer/storefront-cart/internal/domains/cart/ports"
	apierrors "github.com/Apurer/storefront-cart/internal/shared/errors"
)

// NewRouter builds the gin engine serving the cart API.
func NewRouter(serviceName string, provider cartports.Provider, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.NoRoute(func(c *gin.Context) {
		apierrors.DefaultResponder.NotFound(c, "route", c.Request.URL.Path)
	})
	carthttp.NewAPI(provider, carthttp.WithLogger(logger)).Register(router)
	return router
}
