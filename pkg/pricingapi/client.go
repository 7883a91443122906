package pricingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/leadquote-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	serviceName                 = "pricing-decision"
	decisionPath                = "/pricing/decision"
	responseBodyReadLimit int64 = 1024
)

var errBaseURLRequired = errors.New("pricing api base url is required")

// OrderItem is one line of the order context.
type OrderItem struct {
	SKUID    string          `json:"sku_id"`
	Quantity int             `json:"sku_qty"`
	Price    decimal.Decimal `json:"price"`
	Model    string          `json:"product_model,omitempty"`
	Brand    string          `json:"product_brand,omitempty"`
}

// DecisionRequest is the payload of a single pricing decision.
type DecisionRequest struct {
	OrgID        string          `json:"org_id"`
	BrandID      string          `json:"brand_id"`
	CustomerID   string          `json:"customer_id"`
	SKUID        string          `json:"sku_id"`
	SKUQuantity  int             `json:"sku_qty"`
	OrderValue   decimal.Decimal `json:"order_value"`
	ProductBrand string          `json:"product_brand"`
	ProductModel string          `json:"product_model"`
	Installments int             `json:"installments"`
	OrderItems   []OrderItem     `json:"order_items"`
}

// DecisionResponse is the outer response; Data is decoded by the caller.
type DecisionResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data"`
}

// APIError carries the upstream status of a failed decision call.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Body)
}

func (e *APIError) UpstreamStatus() int { return e.Status }

func (e *APIError) UpstreamService() string { return serviceName }

// Client calls the external pricing-decision service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
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

// WithAPIKey sets the X-API-Key header value.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithTimeout bounds each call; zero keeps the context as the only limit.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	client := &Client{baseURL: trimmed, httpClient: &http.Client{}}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{}
	}
	return client, nil
}

// Decide requests a pricing decision for one item.
func (c *Client) Decide(ctx context.Context, req DecisionRequest) (*DecisionResponse, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "pricing client not configured")
	}
	if strings.TrimSpace(req.SKUID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku_id is required")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal decision request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+decisionPath, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build decision request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeCanceled, err, "decision request canceled")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute decision request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}, "decision request failed")
	}

	var out DecisionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode decision response")
	}
	if !out.Success {
		msg := strings.TrimSpace(out.Message)
		if msg == "" {
			msg = "pricing decision unsuccessful"
		}
		return nil, pkgerrors.New(pkgerrors.CodeDependency, msg)
	}
	return &out, nil
}
