package huxley

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public Huxley2 instance.
const DefaultBaseURL = "https://huxley2.azurewebsites.net"

// Client is a Huxley2 departures API client.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// NewClient creates a new Huxley client. The access token may be empty; the
// caller decides whether that is acceptable before issuing a request.
func NewClient(baseURL, accessToken string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
	}
}

// AccessToken returns the credential the client forwards upstream.
func (c *Client) AccessToken() string {
	return c.accessToken
}

// Departures fetches up to rows expanded departures for a station.
func (c *Client) Departures(ctx context.Context, crs string, rows int) (*DeparturesResponse, error) {
	q := url.Values{}
	q.Set("expand", "true")
	q.Set("accessToken", c.accessToken)

	reqURL := fmt.Sprintf("%s/departures/%s/%d?%s",
		c.baseURL, url.PathEscape(crs), rows, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "platformboard/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result DeparturesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}
