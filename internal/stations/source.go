package stations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Station is one entry of the station directory asset.
type Station struct {
	Name string `json:"stationName"`
	Code string `json:"crsCode"`
}

// Source loads the full station list.
type Source interface {
	Load(ctx context.Context) ([]Station, error)
}

// NewSource returns an HTTPSource for http(s) locations and a FileSource otherwise.
func NewSource(location string) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location)
	}
	return FileSource{Path: location}
}

// FileSource reads the directory from a JSON file on disk.
type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) ([]Station, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading stations file: %w", err)
	}

	var list []Station
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing stations file: %w", err)
	}

	return list, nil
}

// HTTPSource fetches the directory asset over HTTP.
type HTTPSource struct {
	httpClient *http.Client
	url        string
}

func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		url:        url,
	}
}

func (s *HTTPSource) Load(ctx context.Context) ([]Station, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to load %s: unexpected status code: %d", s.url, resp.StatusCode)
	}

	var list []Station
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return list, nil
}
