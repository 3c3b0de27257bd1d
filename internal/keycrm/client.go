package keycrm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://openapi.keycrm.app/v1"

// Client talks to the KeyCRM open API with a bearer key.
type Client struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration // per request; defaults to 15s
	Client  *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.Client == nil {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		c.Client = &http.Client{Timeout: timeout}
	}
	return c.Client
}

func (c *Client) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(c.BaseURL, "/")
}

// CreateOrder creates an order and returns it as echoed by KeyCRM.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var out Order
	if err := c.do(ctx, http.MethodPost, "/order", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindOrderBySourceUUID returns the first order whose source_uuid equals
// uuid, or nil when there is none.
func (c *Client) FindOrderBySourceUUID(ctx context.Context, uuid string) (*Order, error) {
	q := url.Values{}
	q.Set("filter[source_uuid]", uuid)
	q.Set("limit", "1")
	q.Set("include", "status")
	var page Page[Order]
	if err := c.do(ctx, http.MethodGet, "/order", q, nil, &page); err != nil {
		return nil, err
	}
	if len(page.Data) == 0 {
		return nil, nil
	}
	return &page.Data[0], nil
}

// GetOrder fetches one order by id. A missing order is an *APIError with
// status 404 (see IsNotFound).
func (c *Client) GetOrder(ctx context.Context, id int64) (*Order, error) {
	var out Order
	if err := c.do(ctx, http.MethodGet, "/order/"+strconv.FormatInt(id, 10), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrder patches an order.
func (c *Client) UpdateOrder(ctx context.Context, id int64, req UpdateOrderRequest) error {
	return c.do(ctx, http.MethodPatch, "/order/"+strconv.FormatInt(id, 10), nil, req, nil)
}

// ListUsers returns one page of the staff directory.
func (c *Client) ListUsers(ctx context.Context, page, limit int) (*Page[User], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	var out Page[User]
	if err := c.do(ctx, http.MethodGet, "/users", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping makes the smallest authenticated call the API offers.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListUsers(ctx, 1, 1)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}

	u := c.baseURL() + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("keycrm: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("keycrm: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("keycrm: read %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(respBody, resp.Status)}
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("keycrm: decode %s %s: %w", method, path, err)
	}
	return nil
}

// errorMessage prefers the API's "message" field, then the raw body.
func errorMessage(body []byte, status string) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return status
}
