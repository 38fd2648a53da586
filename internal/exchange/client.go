package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultAPIURL is the public frankfurter.app endpoint.
const DefaultAPIURL = "https://api.frankfurter.app"

// Client wraps interactions with the frankfurter.app rate API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// Rate fetches the rate converting one unit of from into to on the given day.
func (c *Client) Rate(ctx context.Context, from, to string, day time.Time) (float64, error) {
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, day.Format("2006-01-02"), url.Values{
		"from": []string{from},
		"to":   []string{to},
	}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("exchange: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("exchange: call rate api: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("exchange: rate api returned status %d: %w", resp.StatusCode, ErrRateUnavailable)
	}
	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("exchange: decode rate response: %w", err)
	}
	rate, ok := body.Rates[to]
	if !ok {
		return 0, fmt.Errorf("exchange: %s missing from rate response: %w", to, ErrRateUnavailable)
	}
	return rate, nil
}
