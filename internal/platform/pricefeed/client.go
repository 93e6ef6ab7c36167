// Package pricefeed fetches the ETH/USD spot price from a CoinGecko-shaped
// simple-price endpoint.
package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	assetID      = "ethereum"
	fetchTimeout = 8 * time.Second
)

type Client struct {
	httpClient *http.Client
	url        string
}

func NewClient(url string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: fetchTimeout},
		url:        url,
	}
}

// FetchPrice returns the current spot price in USD. Any non-2xx response,
// timeout or malformed body is an error; callers log and carry on.
func (c *Client) FetchPrice(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("price feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("price feed error: %d", resp.StatusCode)
	}

	var body map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("price feed decode: %w", err)
	}

	price, ok := body[assetID]["usd"]
	if !ok {
		return 0, fmt.Errorf("price feed response missing %s.usd", assetID)
	}
	return price, nil
}
