// Package komerce is the client for the Komerce (RajaOngkir) shipping
// aggregator, used for domestic destination search and cost lookups.
package komerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://rajaongkir.komerce.id/api/v1"

// Destination is one entry of a domestic destination search.
type Destination struct {
	ID              int    `json:"id"`
	Label           string `json:"label"`
	ProvinceName    string `json:"province_name"`
	CityName        string `json:"city_name"`
	DistrictName    string `json:"district_name"`
	SubdistrictName string `json:"subdistrict_name"`
	ZipCode         string `json:"zip_code"`
}

// CostOption is one courier service cost for a shipment.
type CostOption struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Service     string `json:"service"`
	Description string `json:"description"`
	Cost        int64  `json:"cost"`
	Etd         string `json:"etd"`
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// Client authenticates with an API key sent as a "key" header.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SearchDestinations finds domestic destinations matching the query.
func (c *Client) SearchDestinations(ctx context.Context, search string, limit int) ([]Destination, error) {
	endpoint := fmt.Sprintf("%s/destination/domestic-destination?search=%s&limit=%d&offset=0",
		c.baseURL, url.QueryEscape(search), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("komerce: failed to build request: %w", err)
	}
	req.Header.Set("key", c.apiKey)

	var dests []Destination
	if err := c.do(req, &dests); err != nil {
		return nil, err
	}
	return dests, nil
}

// CalculateCost fetches courier costs for an origin/destination/weight.
func (c *Client) CalculateCost(ctx context.Context, origin, destination string, weight int, courier string) ([]CostOption, error) {
	form := url.Values{}
	form.Set("origin", origin)
	form.Set("destination", destination)
	form.Set("weight", strconv.Itoa(weight))
	form.Set("courier", courier)

	endpoint := c.baseURL + "/calculate/domestic-cost"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("komerce: failed to build request: %w", err)
	}
	req.Header.Set("key", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var costs []CostOption
	if err := c.do(req, &costs); err != nil {
		return nil, err
	}
	return costs, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("komerce: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("komerce: API error: %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("komerce: failed to decode response: %w", err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("komerce: failed to decode data: %w", err)
	}
	return nil
}
