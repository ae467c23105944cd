package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 800, cfg.Route.DefaultCruiseSpeedKts)
	assert.Equal(t, 10, cfg.News.FetchWorkers)
	assert.Equal(t, 0.9, cfg.Pipeline.RegressionWeight)
	assert.Equal(t, 0.1, cfg.Pipeline.TextWeight)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
port = 9090

[weather]
api_key = "test-key"

[pipeline]
regression_weight = 0.8
text_weight = 0.2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test-key", cfg.Weather.APIKey)
	assert.Equal(t, 0.8, cfg.Pipeline.RegressionWeight)
	// untouched sections keep their defaults
	assert.Equal(t, "https://api.flightplandatabase.com", cfg.Route.APIBaseURL)
	assert.Equal(t, 4096, cfg.Weather.CacheSize)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad cruise speed", func(c *Config) { c.Route.DefaultCruiseSpeedKts = -1 }},
		{"bad cache size", func(c *Config) { c.Weather.CacheSize = 0 }},
		{"bad worker count", func(c *Config) { c.News.FetchWorkers = 0 }},
		{"weights off", func(c *Config) { c.Pipeline.TextWeight = 0.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
