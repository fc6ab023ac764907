// Package client is a Go consumer of the Threadline API. It carries the
// storefront's two interactive flows, checkout and order history, as
// explicit state machines so programs embedding the client get the same
// behavior the web storefront has.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/threadline/threadline/app/models"
)

// APIError is a non-2xx response decoded from the API's error envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client is a thin HTTP wrapper over the Threadline API.
type Client struct {
	base  string
	http  *http.Client
	token string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: baseURL,
		http: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken installs the bearer token used on authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

// LoginResult is the login response payload.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login authenticates and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// Profile fetches the authenticated user's account.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAddresses replaces the profile's address collection.
func (c *Client) UpdateAddresses(ctx context.Context, addrs []models.Address) (*models.User, error) {
	var out models.User
	err := c.do(ctx, http.MethodPut, "/api/auth/profile",
		map[string]interface{}{"addresses": addrs}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrderRequest is the order placement payload.
type CreateOrderRequest struct {
	Items           []models.OrderItem `json:"items"`
	ShippingAddress models.Address     `json:"shippingAddress"`
	TotalAmount     float64            `json:"totalAmount"`
}

type createOrderResponse struct {
	Message string       `json:"message"`
	Order   models.Order `json:"order"`
}

// CreateOrder places an order and returns the created document.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	var out createOrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

// OrdersByUser fetches a user's orders, newest first.
func (c *Client) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/user/"+userID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf *bytes.Buffer
	if body != nil {
		buf = &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		var envelope struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(res.Body).Decode(&envelope)
		if envelope.Message == "" {
			envelope.Message = http.StatusText(res.StatusCode)
		}
		return &APIError{Status: res.StatusCode, Message: envelope.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
