package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danpilch/platformboard/internal/api/huxley"
	"github.com/danpilch/platformboard/internal/departures"
)

type UpstreamConfig struct {
	BaseURL string        `yaml:"base_url"`
	Rows    int           `yaml:"rows"`
	Timeout time.Duration `yaml:"timeout"`
}

type StationsConfig struct {
	// Source is a file path or an http(s) URL serving the station list.
	Source string `yaml:"source"`
}

type WatchConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Config struct {
	Listen   string         `yaml:"listen"`
	ProxyURL string         `yaml:"proxy_url"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Stations StationsConfig `yaml:"stations"`
	Watch    WatchConfig    `yaml:"watch"`
	CORS     CORSConfig     `yaml:"cors"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Listen:   ":8787",
		ProxyURL: "http://localhost:8787",
		Upstream: UpstreamConfig{
			BaseURL: huxley.DefaultBaseURL,
			Rows:    departures.DefaultRows,
			Timeout: 10 * time.Second,
		},
		Stations: StationsConfig{Source: "data/stations.json"},
		Watch:    WatchConfig{Interval: 2 * time.Minute},
		CORS:     CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen is required")
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	if c.Upstream.Rows <= 0 {
		return fmt.Errorf("upstream.rows must be positive, got %d", c.Upstream.Rows)
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream.timeout must be positive, got %s", c.Upstream.Timeout)
	}
	if c.Stations.Source == "" {
		return fmt.Errorf("stations.source is required")
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive, got %s", c.Watch.Interval)
	}
	return nil
}
