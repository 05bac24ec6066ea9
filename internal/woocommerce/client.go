package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Client talks to the WooCommerce REST API over basic auth with a
// consumer key/secret pair.
type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
}

func NewClient(baseURL, consumerKey, consumerSecret string, timeout time.Duration) *Client {
	return &Client{
		baseURL:        baseURL,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		httpClient:     &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("woocommerce: failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("woocommerce: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("woocommerce: request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("woocommerce: failed to read response from %s: %w", endpoint, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = "WooCommerce API request failed"
		}
		log.Error().
			Int("status", resp.StatusCode).
			Str("code", apiErr.Code).
			Str("endpoint", endpoint).
			Msg("WooCommerce API error")
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("woocommerce: failed to decode response from %s: %w", endpoint, err)
		}
	}
	return nil
}

// Product fetches the authoritative state of a product.
func (c *Client) Product(ctx context.Context, productID int) (*Product, error) {
	var p Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", productID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Variation fetches the authoritative state of a product variation.
func (c *Client) Variation(ctx context.Context, productID, variationID int) (*Product, error) {
	var p Product
	endpoint := fmt.Sprintf("/products/%d/variations/%d", productID, variationID)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateOrder submits an order payload. Only metadata is logged, never
// names, addresses or phone numbers.
func (c *Client) CreateOrder(ctx context.Context, payload *OrderPayload) (*Order, error) {
	log.Info().
		Int("item_count", len(payload.LineItems)).
		Str("payment_method", payload.PaymentMethod).
		Bool("has_shipping", len(payload.ShippingLines) > 0).
		Msg("Creating WooCommerce order")

	var order Order
	if err := c.do(ctx, http.MethodPost, "/orders", payload, &order); err != nil {
		log.Error().Err(err).Msg("Order creation failed")
		return nil, err
	}

	log.Info().
		Int("order_id", order.ID).
		Str("number", order.Number).
		Str("status", order.Status).
		Str("total", order.Total).
		Msg("Order created successfully")
	return &order, nil
}

// Order fetches an order by id.
func (c *Client) Order(ctx context.Context, orderID int) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
