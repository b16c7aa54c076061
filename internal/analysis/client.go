// Package analysis calls the external portfolio scoring endpoint. The
// payload it returns is opaque to us and relayed to the caller untouched.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"papertrader/types"
	"time"
)

// ErrUnavailable covers transport failures and scoring-side errors.
var ErrUnavailable = errors.New("analysis service unavailable")

// Client is the HTTP client for the scoring endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type analyzeRequest struct {
	Assets []types.AssetWeight `json:"assets"`
}

// Analyze posts the normalized weight vector and returns whatever the
// service responds with.
func (c *Client) Analyze(ctx context.Context, assets []types.AssetWeight) (json.RawMessage, error) {
	body, err := json.Marshal(analyzeRequest{Assets: assets})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	return payload, nil
}
