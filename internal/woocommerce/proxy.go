package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// CheckoutProxy forwards destination search and shipping calculation to
// the store's custom checkout endpoints. These are public endpoints on
// the WordPress host, separate from the authenticated REST API.
type CheckoutProxy struct {
	baseURL    string
	httpClient *http.Client
}

func NewCheckoutProxy(baseURL string, timeout time.Duration) *CheckoutProxy {
	return &CheckoutProxy{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SearchDestination looks up shipping destinations matching the query.
// The upstream response is passed through untouched.
func (p *CheckoutProxy) SearchDestination(ctx context.Context, search string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/wp-json/checkout/v1/search-destination?search=%s",
		p.baseURL, url.QueryEscape(search))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("checkout proxy: failed to build request: %w", err)
	}

	return p.forward(req)
}

// CalculateShipping asks the store to compute the shipping cost for a
// destination and weight.
func (p *CheckoutProxy) CalculateShipping(ctx context.Context, destinationID string, weight int) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]any{
		"destination_id": destinationID,
		"weight":         weight,
	})
	if err != nil {
		return nil, fmt.Errorf("checkout proxy: failed to encode request: %w", err)
	}

	endpoint := p.baseURL + "/wp-json/checkout/v1/calculate-shipping"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("checkout proxy: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return p.forward(req)
}

func (p *CheckoutProxy) forward(req *http.Request) (json.RawMessage, error) {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checkout proxy: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checkout proxy: API error: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("checkout proxy: failed to read response: %w", err)
	}
	return json.RawMessage(data), nil
}
