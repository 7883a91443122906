package salesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/leadquote-backend/pkg/errors"
	"github.com/angelmondragon/leadquote-backend/pkg/types"
)

const (
	serviceName                 = "sales-api"
	defaultTimeout              = 15 * time.Second
	responseBodyReadLimit int64 = 1024
)

var errBaseURLRequired = errors.New("sales api base url is required")

// APIError carries the upstream status of a failed sales API call.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Body)
}

func (e *APIError) UpstreamStatus() int { return e.Status }

func (e *APIError) UpstreamService() string { return serviceName }

// Client talks to the lead/cart and product stock services.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithTimeout replaces the default HTTP client with one using the given timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds a sales API client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return client, nil
}

// GetLead fetches the lead header.
func (c *Client) GetLead(ctx context.Context, leadID string) (types.Lead, error) {
	var lead types.Lead
	err := c.do(ctx, http.MethodGet, c.path("leads", leadID), nil, &lead, "get lead")
	return lead, err
}

// GetItems lists the cart lines of a lead.
func (c *Client) GetItems(ctx context.Context, leadID string) ([]types.CartLine, error) {
	var items []types.CartLine
	if err := c.do(ctx, http.MethodGet, c.path("leads", leadID, "items"), nil, &items, "get items"); err != nil {
		return nil, err
	}
	return items, nil
}

// AddItem creates a cart line.
func (c *Client) AddItem(ctx context.Context, leadID string, payload types.ItemPayload) (types.CartLine, error) {
	var line types.CartLine
	err := c.do(ctx, http.MethodPost, c.path("leads", leadID, "items"), payload, &line, "add item")
	return line, err
}

// UpdateItem replaces the mutable fields of a cart line.
func (c *Client) UpdateItem(ctx context.Context, leadID, itemID string, payload types.ItemPayload) (types.CartLine, error) {
	var line types.CartLine
	err := c.do(ctx, http.MethodPut, c.path("leads", leadID, "items", itemID), payload, &line, "update item")
	return line, err
}

// RemoveItem deletes a cart line.
func (c *Client) RemoveItem(ctx context.Context, leadID, itemID string) error {
	return c.do(ctx, http.MethodDelete, c.path("leads", leadID, "items", itemID), nil, nil, "remove item")
}

// CalculateTotals asks the cart service for the current totals.
func (c *Client) CalculateTotals(ctx context.Context, leadID string) (types.CartTotals, error) {
	var totals types.CartTotals
	err := c.do(ctx, http.MethodGet, c.path("leads", leadID, "totals"), nil, &totals, "calculate totals")
	return totals, err
}

// ConvertLead turns the lead into a firm order.
func (c *Client) ConvertLead(ctx context.Context, leadID string) (types.ConversionResult, error) {
	var result types.ConversionResult
	err := c.do(ctx, http.MethodPost, c.path("leads", leadID, "convert"), nil, &result, "convert lead")
	return result, err
}

// GetStockByWarehouse returns the per-warehouse availability of a product.
func (c *Client) GetStockByWarehouse(ctx context.Context, productID string) (types.StockByWarehouse, error) {
	var stock types.StockByWarehouse
	err := c.do(ctx, http.MethodGet, c.path("products", productID, "stock-by-warehouse"), nil, &stock, "get stock by warehouse")
	return stock, err
}

func (c *Client) path(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any, op string) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "sales api client not configured")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal "+op+" request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build "+op+" request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return pkgerrors.Wrap(pkgerrors.CodeCanceled, err, op+" canceled")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute "+op+" request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		apiErr := &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
		code := pkgerrors.CodeDependency
		if resp.StatusCode == http.StatusNotFound {
			code = pkgerrors.CodeNotFound
		}
		return pkgerrors.Wrap(code, apiErr, op+" request failed")
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+op+" response")
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+op+" payload")
	}
	return nil
}
