// Package api is the REST client for the storefront backend. It is the
// only place HTTP status codes are interpreted, and the boundary where
// the backend's wire shapes are normalized into the canonical models.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matthieukhl/storefront/internal/models"
)

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a client for the backend at baseURL. The token, when
// set, is sent as a bearer credential on every request.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// fieldError is the backend's 400 payload; the first entry of Errors is
// surfaced when the top-level field is empty.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

// do executes one request and maps the response onto the error taxonomy.
// A nil out skips body decoding.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Unreachable: true, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return &AuthenticationError{}
	case resp.StatusCode == http.StatusForbidden:
		return &AuthorizationError{}
	case resp.StatusCode == http.StatusBadRequest:
		var fe fieldError
		if err := json.NewDecoder(resp.Body).Decode(&fe); err == nil {
			if fe.Field == "" && len(fe.Errors) > 0 {
				fe.Field = fe.Errors[0].Field
				fe.Message = fe.Errors[0].Message
			}
		}
		return &ServerValidationError{Field: fe.Field, Message: fe.Message}
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	default:
		return &NetworkError{Op: op, Status: resp.StatusCode}
	}
}

// ListProducts fetches the catalog.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var wire []models.WireProduct
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &wire); err != nil {
		return nil, err
	}
	products := make([]models.Product, len(wire))
	for i, w := range wire {
		products[i] = models.NormalizeProduct(w)
	}
	return products, nil
}

// GetProduct fetches one product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var wire models.WireProduct
	if err := c.do(ctx, http.MethodGet, "/api/products/"+id, nil, &wire); err != nil {
		return nil, err
	}
	p := models.NormalizeProduct(wire)
	return &p, nil
}

// CreateProduct creates a product. Admin only.
func (c *Client) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	var wire models.WireProduct
	if err := c.do(ctx, http.MethodPost, "/api/products", p, &wire); err != nil {
		return nil, err
	}
	created := models.NormalizeProduct(wire)
	return &created, nil
}

// UpdateProduct replaces a product. Admin only.
func (c *Client) UpdateProduct(ctx context.Context, id string, p *models.Product) (*models.Product, error) {
	var wire models.WireProduct
	if err := c.do(ctx, http.MethodPut, "/api/products/"+id, p, &wire); err != nil {
		return nil, err
	}
	updated := models.NormalizeProduct(wire)
	return &updated, nil
}

// DeleteProduct deletes a product. Admin only.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+id, nil, nil)
}

// UpdateOrderStatus requests a status transition. The server re-asserts
// the transition table and may reject a transition the client believed
// was legal.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status, notes string) (*models.Order, error) {
	body := map[string]string{"status": status, "notes": notes}
	var wire models.WireOrder
	if err := c.do(ctx, http.MethodPut, "/api/admin/orders/"+orderID+"/status", body, &wire); err != nil {
		return nil, err
	}
	order := models.NormalizeOrder(wire)
	return &order, nil
}

// SendStatusEmail asks the backend to email the customer about the
// latest status change. Fire-and-forget from the caller's perspective.
func (c *Client) SendStatusEmail(ctx context.Context, orderID string) error {
	return c.do(ctx, http.MethodPost, "/api/admin/orders/"+orderID+"/send-status-email", nil, nil)
}

// MyOrders fetches the caller's order history.
func (c *Client) MyOrders(ctx context.Context) ([]models.Order, error) {
	var wire []models.WireOrder
	if err := c.do(ctx, http.MethodGet, "/api/orders/my-orders", nil, &wire); err != nil {
		return nil, err
	}
	orders := make([]models.Order, len(wire))
	for i, w := range wire {
		orders[i] = models.NormalizeOrder(w)
	}
	return orders, nil
}

// Health probes the backend health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}
