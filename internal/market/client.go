// Package market talks to the external market data provider, a small HTTP
// service wrapping the exchange feed. The provider is the only source of
// fresh quotes; the catalogue merely caches what it said last.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"papertrader/types"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrSymbolUnknown means the provider has no data for the requested
	// symbol.
	ErrSymbolUnknown = errors.New("unknown to the market data provider")
	// ErrUnavailable covers transport failures and provider-side errors.
	ErrUnavailable = errors.New("market data provider unavailable")
)

// Client is the HTTP client for the provider API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// quoteResponse mirrors the provider's quote payload. The timestamp comes
// back as a naive ISO string, so it is parsed separately.
type quoteResponse struct {
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Type      types.AssetType `json:"type"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Price     decimal.Decimal `json:"price"`
	Volume    int64           `json:"volume"`
	Currency  string          `json:"currency"`
	Exchange  string          `json:"exchange"`
	Timestamp string          `json:"timestamp"`
}

// Quote fetches the current snapshot for symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*types.Quote, error) {
	var payload quoteResponse
	if err := c.getJSON(ctx, symbol, "/api/market/quote/"+url.PathEscape(symbol), &payload); err != nil {
		return nil, err
	}
	return &types.Quote{
		Symbol:      payload.Symbol,
		Name:        payload.Name,
		Type:        payload.Type,
		Open:        payload.Open,
		High:        payload.High,
		Low:         payload.Low,
		Close:       payload.Close,
		Price:       payload.Price,
		Volume:      payload.Volume,
		Currency:    payload.Currency,
		Exchange:    payload.Exchange,
		LastUpdated: parseTimestamp(payload.Timestamp),
	}, nil
}

// History fetches the provider's daily OHLC series for symbol.
func (c *Client) History(ctx context.Context, symbol string) ([]types.Bar, error) {
	var bars []types.Bar
	if err := c.getJSON(ctx, symbol, "/api/market/history/"+url.PathEscape(symbol), &bars); err != nil {
		return nil, err
	}
	return bars, nil
}

func (c *Client) getJSON(ctx context.Context, symbol, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("symbol %s %w", symbol, ErrSymbolUnknown)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response for %s: %w", symbol, err)
	}
	return nil
}

// The provider emits timestamps like 2025-06-01T12:00:00.000, without a
// zone. Fall back to the fetch time when the format surprises us, and say
// so: a silently wrong lastUpdated hides a provider format change.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	slog.Warn("unparseable provider timestamp, using fetch time", "value", s)
	return time.Now().UTC()
}
