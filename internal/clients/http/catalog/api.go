package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"
)

// StockPayload is the body of GET /stock/{productId}.
type StockPayload struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// ProductPayload is the body of GET /products/{productId}.
type ProductPayload struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// Problem is the RFC 7807 body returned on errors.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// HttpRequestDoer performs HTTP requests.
type HttpRequestDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestEditorFn mutates a request before it is sent.
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// RawClient issues catalog requests and returns raw responses.
type RawClient struct {
	Server         string
	Client         HttpRequestDoer
	RequestEditors []RequestEditorFn
}

// ClientOption configures a RawClient.
type ClientOption func(*RawClient) error

func NewRawClient(server string, opts ...ClientOption) (*RawClient, error) {
	client := RawClient{Server: server}
	for _, o := range opts {
		if err := o(&client); err != nil {
			return nil, err
		}
	}
	if !strings.HasSuffix(client.Server, "/") {
		client.Server += "/"
	}
	if client.Client == nil {
		client.Client = &http.Client{}
	}
	return &client, nil
}

// WithHTTPClient overrides the transport used for requests.
func WithHTTPClient(doer HttpRequestDoer) ClientOption {
	return func(c *RawClient) error {
		c.Client = doer
		return nil
	}
}

// WithRequestEditorFn appends a request editor applied to every call.
func WithRequestEditorFn(fn RequestEditorFn) ClientOption {
	return func(c *RawClient) error {
		c.RequestEditors = append(c.RequestEditors, fn)
		return nil
	}
}

func (c *RawClient) GetStock(ctx context.Context, productID int64, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := newGetRequest(c.Server, "stock", productID)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, reqEditors)
}

func (c *RawClient) GetProduct(ctx context.Context, productID int64, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := newGetRequest(c.Server, "products", productID)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, reqEditors)
}

func (c *RawClient) do(ctx context.Context, req *http.Request, additional []RequestEditorFn) (*http.Response, error) {
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")
	for _, r := range c.RequestEditors {
		if err := r(ctx, req); err != nil {
			return nil, err
		}
	}
	for _, r := range additional {
		if err := r(ctx, req); err != nil {
			return nil, err
		}
	}
	return c.Client.Do(req)
}

func newGetRequest(server, collection string, productID int64) (*http.Request, error) {
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "productId", runtime.ParamLocationPath, productID)
	if err != nil {
		return nil, err
	}
	serverURL, err := url.Parse(server)
	if err != nil {
		return nil, err
	}
	queryURL, err := serverURL.Parse(fmt.Sprintf("%s/%s", collection, pathParam))
	if err != nil {
		return nil, err
	}
	return http.NewRequest(http.MethodGet, queryURL.String(), nil)
}

// GetStockResponse is a parsed GET /stock/{productId} response.
type GetStockResponse struct {
	Body         []byte
	HTTPResponse *http.Response
	JSON200      *StockPayload
	JSON404      *Problem
}

func (r GetStockResponse) StatusCode() int {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.StatusCode
	}
	return 0
}

func (r GetStockResponse) Status() string {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.Status
	}
	return http.StatusText(0)
}

// GetProductResponse is a parsed GET /products/{productId} response.
type GetProductResponse struct {
	Body         []byte
	HTTPResponse *http.Response
	JSON200      *ProductPayload
	JSON404      *Problem
}

func (r GetProductResponse) StatusCode() int {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.StatusCode
	}
	return 0
}

func (r GetProductResponse) Status() string {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.Status
	}
	return http.StatusText(0)
}

// ClientWithResponses decodes catalog responses into typed payloads.
type ClientWithResponses struct {
	raw *RawClient
}

func NewClientWithResponses(server string, opts ...ClientOption) (*ClientWithResponses, error) {
	raw, err := NewRawClient(server, opts...)
	if err != nil {
		return nil, err
	}
	return &ClientWithResponses{raw: raw}, nil
}

func (c *ClientWithResponses) GetStockWithResponse(ctx context.Context, productID int64, reqEditors ...RequestEditorFn) (*GetStockResponse, error) {
	rsp, err := c.raw.GetStock(ctx, productID, reqEditors...)
	if err != nil {
		return nil, err
	}
	body, err := readBody(rsp)
	if err != nil {
		return nil, err
	}
	response := &GetStockResponse{Body: body, HTTPResponse: rsp}
	switch {
	case isJSON(rsp) && rsp.StatusCode == http.StatusOK:
		var dest StockPayload
		if err := json.Unmarshal(body, &dest); err != nil {
			return nil, err
		}
		response.JSON200 = &dest
	case isJSON(rsp) && rsp.StatusCode == http.StatusNotFound:
		var dest Problem
		if err := json.Unmarshal(body, &dest); err != nil {
			return nil, err
		}
		response.JSON404 = &dest
	}
	return response, nil
}

func (c *ClientWithResponses) GetProductWithResponse(ctx context.Context, productID int64, reqEditors ...RequestEditorFn) (*GetProductResponse, error) {
	rsp, err := c.raw.GetProduct(ctx, productID, reqEditors...)
	if err != nil {
		return nil, err
	}
	body, err := readBody(rsp)
	if err != nil {
		return nil, err
	}
	response := &GetProductResponse{Body: body, HTTPResponse: rsp}
	switch {
	case isJSON(rsp) && rsp.StatusCode == http.StatusOK:
		var dest ProductPayload
		if err := json.Unmarshal(body, &dest); err != nil {
			return nil, err
		}
		response.JSON200 = &dest
	case isJSON(rsp) && rsp.StatusCode == http.StatusNotFound:
		var dest Problem
		if err := json.Unmarshal(body, &dest); err != nil {
			return nil, err
		}
		response.JSON404 = &dest
	}
	return response, nil
}

func readBody(rsp *http.Response) ([]byte, error) {
	defer func() { _ = rsp.Body.Close() }()
	return io.ReadAll(rsp.Body)
}

func isJSON(rsp *http.Response) bool {
	return strings.Contains(rsp.Header.Get("Content-Type"), "json")
}
