package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNotFound is returned when the catalog has no entry for the product.
var ErrNotFound = errors.New("catalog entry not found")

// Client wraps the typed catalog client with stock and product helpers.
type Client struct {
	api *ClientWithResponses
}

// NewCatalogClient instantiates the catalog client with a 5s default timeout.
func NewCatalogClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("catalog base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	api, err := NewClientWithResponses(baseURL, WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("build catalog client: %w", err)
	}
	return &Client{api: api}, nil
}

// GetStock fetches the purchasable quantity for productID.
func (c *Client) GetStock(ctx context.Context, productID int64) (StockPayload, error) {
	if c == nil || c.api == nil {
		return StockPayload{}, errors.New("catalog client not configured")
	}
	resp, err := c.api.GetStockWithResponse(ctx, productID)
	if err != nil {
		return StockPayload{}, fmt.Errorf("call catalog stock API: %w", err)
	}
	switch {
	case resp.StatusCode() == http.StatusOK && resp.JSON200 != nil:
		return *resp.JSON200, nil
	case resp.StatusCode() == http.StatusNotFound:
		return StockPayload{}, fmt.Errorf("stock for product %d: %w", productID, ErrNotFound)
	default:
		return StockPayload{}, fmt.Errorf("catalog stock API error: %s", errorMessage(resp.JSON404, resp.Status()))
	}
}

// GetProduct fetches the product metadata for productID.
func (c *Client) GetProduct(ctx context.Context, productID int64) (ProductPayload, error) {
	if c == nil || c.api == nil {
		return ProductPayload{}, errors.New("catalog client not configured")
	}
	resp, err := c.api.GetProductWithResponse(ctx, productID)
	if err != nil {
		return ProductPayload{}, fmt.Errorf("call catalog product API: %w", err)
	}
	switch {
	case resp.StatusCode() == http.StatusOK && resp.JSON200 != nil:
		return *resp.JSON200, nil
	case resp.StatusCode() == http.StatusNotFound:
		return ProductPayload{}, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	default:
		return ProductPayload{}, fmt.Errorf("catalog product API error: %s", errorMessage(resp.JSON404, resp.Status()))
	}
}

func errorMessage(body *Problem, fallback string) string {
	if body == nil {
		return fallback
	}
	if msg := strings.TrimSpace(body.Detail); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(body.Title); msg != "" {
		return msg
	}
	return fallback
}
