package catalog

import (
	"context"
	"errors"
	"fmt"

	catalogclient "github.com/Apurer/storefront-cart/internal/clients/http/catalog"
	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
	catalogapp "github.com/Apurer/storefront-cart/internal/domains/catalog/application"
	catalogports "github.com/Apurer/storefront-cart/internal/domains/catalog/ports"
)

// HTTPGateway answers stock and product queries through the remote catalog API.
type HTTPGateway struct {
	client *catalogclient.Client
}

func NewHTTPGateway(client *catalogclient.Client) *HTTPGateway {
	return &HTTPGateway{client: client}
}

func (g *HTTPGateway) Stock(ctx context.Context, productID int64) (domain.Stock, error) {
	if g == nil || g.client == nil {
		return domain.Stock{}, errors.New("catalog gateway not configured")
	}
	payload, err := g.client.GetStock(ctx, productID)
	if err != nil {
		return domain.Stock{}, mapClientError(err)
	}
	return FromStockPayload(payload), nil
}

func (g *HTTPGateway) Product(ctx context.Context, productID int64) (domain.Product, error) {
	if g == nil || g.client == nil {
		return domain.Product{}, errors.New("catalog gateway not configured")
	}
	payload, err := g.client.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, mapClientError(err)
	}
	return FromProductPayload(payload), nil
}

func mapClientError(err error) error {
	if errors.Is(err, catalogclient.ErrNotFound) {
		return fmt.Errorf("%w: %w", ports.ErrProductNotFound, err)
	}
	return err
}

// LocalGateway answers stock and product queries from an in-process catalog service.
type LocalGateway struct {
	service *catalogapp.Service
}

func NewLocalGateway(service *catalogapp.Service) *LocalGateway {
	return &LocalGateway{service: service}
}

func (g *LocalGateway) Stock(ctx context.Context, productID int64) (domain.Stock, error) {
	level, err := g.service.Stock(ctx, productID)
	if err != nil {
		return domain.Stock{}, mapCatalogError(err)
	}
	return domain.Stock{ProductID: level.ProductID, Amount: level.Amount}, nil
}

func (g *LocalGateway) Product(ctx context.Context, productID int64) (domain.Product, error) {
	product, err := g.service.Product(ctx, productID)
	if err != nil {
		return domain.Product{}, mapCatalogError(err)
	}
	return FromCatalogProduct(product), nil
}

func mapCatalogError(err error) error {
	if errors.Is(err, catalogports.ErrNotFound) {
		return fmt.Errorf("%w: %w", ports.ErrProductNotFound, err)
	}
	return err
}

var (
	_ ports.Catalog = (*HTTPGateway)(nil)
	_ ports.Catalog = (*LocalGateway)(nil)
)
