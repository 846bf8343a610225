package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 9, cfg.Upstream.Rows)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
listen: ":9000"
upstream:
  timeout: 3s
stations:
  source: https://example.org/data/stations.json
watch:
  interval: 30s
cors:
  allowed_origins: ["https://trains.example.org"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, "https://huxley2.azurewebsites.net", cfg.Upstream.BaseURL)
	assert.Equal(t, 9, cfg.Upstream.Rows)
	assert.Equal(t, "https://example.org/data/stations.json", cfg.Stations.Source)
	assert.Equal(t, 30*time.Second, cfg.Watch.Interval)
	assert.Equal(t, []string{"https://trains.example.org"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"malformed":    "listen: [",
		"zero rows":    "upstream:\n  rows: 0\n",
		"bad timeout":  "upstream:\n  timeout: -1s\n",
		"empty source": "stations:\n  source: \"\"\n",
		"zero watch":   "watch:\n  interval: 0s\n",
		"empty listen": "listen: \"\"\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}
