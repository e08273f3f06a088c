package catalog

import (
	catalogclient "github.com/Apurer/storefront-cart/internal/clients/http/catalog"
	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	catalogdomain "github.com/Apurer/storefront-cart/internal/domains/catalog/domain"
)

// FromStockPayload converts the wire stock shape into the cart's stock view.
func FromStockPayload(p catalogclient.StockPayload) domain.Stock {
	return domain.Stock{ProductID: p.ID, Amount: p.Amount}
}

// FromProductPayload converts the wire product shape into a cart product.
func FromProductPayload(p catalogclient.ProductPayload) domain.Product {
	return domain.Product{ID: p.ID, Title: p.Title, Price: p.Price, Image: p.Image}
}

// FromCatalogProduct converts an in-process catalog product into a cart product.
func FromCatalogProduct(p catalogdomain.Product) domain.Product {
	return domain.Product{ID: p.ID, Title: p.Title, Price: p.Price, Image: p.Image}
}
