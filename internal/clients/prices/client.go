// Package prices adapts the external price oracle. A price lookup never
// fails the caller: any transport error, timeout or empty payload degrades
// to "no data" and the symbol is valued at zero.
package prices

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Oracle returns the latest known trade price for a ticker.
// ok is false when the oracle has no usable data for the symbol.
type Oracle interface {
	CurrentPrice(symbol string) (price float64, ok bool)
}

// Client is a price oracle client over the cached price data API
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new price client. The timeout bounds every lookup.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("client", "prices").Logger(),
	}
}

// priceAPIResponse mirrors the cachedPriceData payload. The last element of
// price_data.close is the latest trade price.
type priceAPIResponse struct {
	PriceData struct {
		Close []float64 `json:"close"`
	} `json:"price_data"`
}

// CurrentPrice returns the last close for a ticker, or (0, false) when the
// oracle is unavailable or has no data.
func (c *Client) CurrentPrice(symbol string) (float64, bool) {
	reqURL := fmt.Sprintf("%s?ticker=%s", c.baseURL, url.QueryEscape(symbol))

	resp, err := c.client.Get(reqURL)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("Price lookup failed")
		return 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Str("symbol", symbol).Msg("Price lookup returned non-OK status")
		return 0, false
	}

	var payload priceAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to decode price response")
		return 0, false
	}

	closes := payload.PriceData.Close
	if len(closes) == 0 {
		c.log.Debug().Str("symbol", symbol).Msg("No price data for symbol")
		return 0, false
	}

	price := closes[len(closes)-1]
	if price <= 0 {
		return 0, false
	}

	return price, true
}
