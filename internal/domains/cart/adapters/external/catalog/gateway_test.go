package catalog

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogclient "github.com/Apurer/storefront-cart/internal/clients/http/catalog"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
	cataloghttp "github.com/Apurer/storefront-cart/internal/domains/catalog/adapters/http"
	catalogmemory "github.com/Apurer/storefront-cart/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/storefront-cart/internal/domains/catalog/application"
)

func seededCatalog(t *testing.T) *catalogapp.Service {
	t.Helper()
	svc := catalogapp.NewService(catalogmemory.NewRepository())
	require.NoError(t, svc.Seed(context.Background(), catalogapp.DefaultSeed()))
	return svc
}

func TestHTTPGateway_AgainstCatalogAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	cataloghttp.NewAPI(seededCatalog(t)).Register(router)
	srv := httptest.NewServer(router)
	defer srv.Close()

	client, err := catalogclient.NewCatalogClient(srv.URL, srv.Client())
	require.NoError(t, err)
	gateway := NewHTTPGateway(client)
	ctx := context.Background()

	stock, err := gateway.Stock(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, stock.Amount)

	product, err := gateway.Product(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), product.ID)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("139.90")))

	_, err = gateway.Product(ctx, 999)
	assert.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestLocalGateway(t *testing.T) {
	gateway := NewLocalGateway(seededCatalog(t))
	ctx := context.Background()

	stock, err := gateway.Stock(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, stock.Amount)

	product, err := gateway.Product(ctx, 3)
	require.NoError(t, err)
	assert.NotEmpty(t, product.Title)

	_, err = gateway.Stock(ctx, 999)
	assert.ErrorIs(t, err, ports.ErrProductNotFound)
}
