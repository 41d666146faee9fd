package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "altscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.25, cfg.Weights.Narrative)
	assert.Equal(t, 3, cfg.Scanner.TopN)
	assert.Equal(t, "sonar", cfg.Enricher.Model)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Scanner.ListingLimit)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
scanner:
  listing_limit: 25
  top_n: 5
listings:
  base_url: http://localhost:9999/v1
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Scanner.ListingLimit)
	assert.Equal(t, 5, cfg.Scanner.TopN)
	assert.Equal(t, "http://localhost:9999/v1", cfg.Listings.BaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Untouched keys keep their defaults.
	assert.Equal(t, 50, cfg.Scanner.EnrichTop)
}

func TestLoad_SecretsComeFromEnvOnly(t *testing.T) {
	// An api_key key in YAML must be ignored; only the env reaches the
	// config.
	path := writeConfig(t, `
listings:
  api_key: should-be-ignored
`)
	t.Setenv(EnvListingsKey, "from-env")
	t.Setenv(EnvEnricherKey, "px-from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Listings.APIKey)
	assert.Equal(t, "px-from-env", cfg.Enricher.APIKey)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/altscan.yaml")
	assert.Error(t, err)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"weights do not sum to one", func(c *Config) { c.Weights.Narrative = 0.9 }},
		{"negative weight", func(c *Config) { c.Weights.Social = -0.2; c.Weights.Narrative = 0.65 }},
		{"zero top_n", func(c *Config) { c.Scanner.TopN = 0 }},
		{"zero listing_limit", func(c *Config) { c.Scanner.ListingLimit = 0 }},
		{"zero enrich_interval", func(c *Config) { c.Scanner.EnrichInterval = 0 }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_EnvLogLevelOverride(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}
