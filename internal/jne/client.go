// Package jne is the client for the JNE carrier rate API, the price
// oracle used to reconcile client-submitted shipping costs.
package jne

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var ErrMissingCredentials = errors.New("jne: credentials are not configured")

// PriceRequest identifies a shipment for quoting: origin tariff code,
// destination tariff code and billable weight in whole kilograms.
type PriceRequest struct {
	From   string `json:"from"`
	Thru   string `json:"thru"`
	Weight int    `json:"weight"`
}

// PriceItem is a single service quote.
type PriceItem struct {
	ServiceDisplay string `json:"service_display"`
	GoodsType      string `json:"goods_type"`
	Price          string `json:"price"`
	EtdFrom        string `json:"etd_from"`
	EtdThru        string `json:"etd_thru"`
}

// PriceResponse is the carrier's answer. The API reports business
// failures inside a 200 body through Error and Status.
type PriceResponse struct {
	Price  []PriceItem `json:"price,omitempty"`
	Error  string      `json:"error,omitempty"`
	Status bool        `json:"status"`
}

// PriceInt parses the quoted price, which the carrier returns as a
// numeric string.
func (p PriceItem) PriceInt() (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(p.Price), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("jne: invalid price %q: %w", p.Price, err)
	}
	return v, nil
}

// Client calls the JNE tracing/price API. Authentication is a
// username/API key pair sent as form fields.
type Client struct {
	endpoint   string
	username   string
	apiKey     string
	httpClient *http.Client
}

func NewClient(endpoint, username, apiKey string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		username:   username,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Price fetches service quotes for the given origin/destination/weight.
func (c *Client) Price(ctx context.Context, params PriceRequest) (*PriceResponse, error) {
	if c.username == "" || c.apiKey == "" {
		return nil, ErrMissingCredentials
	}

	form := url.Values{}
	form.Set("username", c.username)
	form.Set("api_key", c.apiKey)
	form.Set("from", params.From)
	form.Set("thru", params.Thru)
	form.Set("weight", strconv.Itoa(params.Weight))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("jne: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("JNE request failed")
		return nil, fmt.Errorf("jne: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jne: API error: %d", resp.StatusCode)
	}

	var priced PriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&priced); err != nil {
		return nil, fmt.Errorf("jne: failed to decode response: %w", err)
	}
	return &priced, nil
}
