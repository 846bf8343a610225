package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danpilch/platformboard/internal/departures"
)

// Fetcher returns platform grouped departures for a normalized station code.
type Fetcher interface {
	FetchDepartures(ctx context.Context, code string) ([]departures.PlatformGroup, error)
}

// ProxyClient talks to the departures proxy over HTTP.
type ProxyClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewProxyClient(baseURL string) *ProxyClient {
	return &ProxyClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// FetchDepartures calls GET /api/departures/{code}. A non-2xx answer becomes
// an error carrying the proxy's reason verbatim.
func (c *ProxyClient) FetchDepartures(ctx context.Context, code string) ([]departures.PlatformGroup, error) {
	reqURL := fmt.Sprintf("%s/api/departures/%s", c.baseURL, url.PathEscape(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body errorBody
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
			return nil, errors.New(body.Error)
		}
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var groups []departures.PlatformGroup
	if err := json.NewDecoder(resp.Body).Decode(&groups); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return groups, nil
}

// LocalFetcher serves lookups in process from a departures.Service. Typed
// lookup errors surface with their user facing message.
type LocalFetcher struct {
	Service *departures.Service
}

func (f LocalFetcher) FetchDepartures(ctx context.Context, code string) ([]departures.PlatformGroup, error) {
	groups, err := f.Service.Lookup(ctx, code)
	if err != nil {
		var lookupErr *departures.Error
		if errors.As(err, &lookupErr) {
			return nil, errors.New(lookupErr.Message)
		}
		return nil, err
	}
	return groups, nil
}
