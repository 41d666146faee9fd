// Package config loads the application configuration from YAML with
// environment overrides for secrets. API keys never live in config
// files; they come from the environment only.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/panicdrop/altscan/internal/domain"
	httpapi "github.com/panicdrop/altscan/internal/interfaces/http"
)

// Config is the full application configuration.
type Config struct {
	Weights  domain.ScoreWeights  `yaml:"weights"`
	Scanner  ScannerConfig        `yaml:"scanner"`
	Listings ListingsConfig       `yaml:"listings"`
	Enricher EnricherConfig       `yaml:"enricher"`
	Cache    CacheConfig          `yaml:"cache"`
	Server   httpapi.ServerConfig `yaml:"server"`
	Journal  JournalConfig        `yaml:"journal"`
	LogLevel string               `yaml:"log_level"`
}

// ScannerConfig controls the refresh cycle.
type ScannerConfig struct {
	ListingLimit    int           `yaml:"listing_limit"`
	EnrichTop       int           `yaml:"enrich_top"`
	EnrichInterval  time.Duration `yaml:"enrich_interval"`
	ListingTimeout  time.Duration `yaml:"listing_timeout"`
	EnrichTimeout   time.Duration `yaml:"enrich_timeout"`
	TopN            int           `yaml:"top_n"`
	RefreshInterval time.Duration `yaml:"refresh_interval"` // serve mode auto-refresh, 0 disables
}

// ListingsConfig configures the market listings provider.
type ListingsConfig struct {
	BaseURL  string        `yaml:"base_url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
	APIKey   string        `yaml:"-"` // from env, never config files
}

// EnricherConfig configures the research scoring provider.
type EnricherConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
	APIKey      string  `yaml:"-"` // from env, never config files
}

// CacheConfig configures the optional Redis listings cache.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
	Password string        `yaml:"-"` // from env, never config files
}

// JournalConfig configures trade journal persistence. An empty DSN
// selects the in-memory store.
type JournalConfig struct {
	DSN     string        `yaml:"-"` // from env, carries credentials
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Weights: domain.DefaultScoreWeights,
		Scanner: ScannerConfig{
			ListingLimit:    100,
			EnrichTop:       50,
			EnrichInterval:  1200 * time.Millisecond,
			ListingTimeout:  10 * time.Second,
			EnrichTimeout:   8 * time.Second,
			TopN:            3,
			RefreshInterval: 5 * time.Minute,
		},
		Listings: ListingsConfig{
			BaseURL:  "https://pro-api.coinmarketcap.com/v1",
			CacheTTL: 60 * time.Second,
		},
		Enricher: EnricherConfig{
			BaseURL:     "https://api.perplexity.ai",
			Model:       "sonar",
			MaxTokens:   500,
			Temperature: 0.2,
		},
		Cache: CacheConfig{
			Addr: "localhost:6379",
			TTL:  60 * time.Second,
		},
		Server: httpapi.DefaultServerConfig(),
		Journal: JournalConfig{
			Timeout: 5 * time.Second,
		},
		LogLevel: "info",
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path skips the file entirely.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config YAML: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Environment variables recognized by applyEnv.
const (
	EnvListingsKey = "CMC_API_KEY"
	EnvEnricherKey = "PERPLEXITY_API_KEY"
	EnvRedisPass   = "REDIS_PASSWORD"
	EnvJournalDSN  = "JOURNAL_DATABASE_URL"
	EnvLogLevel    = "LOG_LEVEL"
)

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvListingsKey); v != "" {
		c.Listings.APIKey = v
	}
	if v := os.Getenv(EnvEnricherKey); v != "" {
		c.Enricher.APIKey = v
	}
	if v := os.Getenv(EnvRedisPass); v != "" {
		c.Cache.Password = v
	}
	if v := os.Getenv(EnvJournalDSN); v != "" {
		c.Journal.DSN = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate rejects configurations the application cannot run with.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("config weights: %w", err)
	}
	if c.Scanner.ListingLimit <= 0 {
		return fmt.Errorf("config: scanner listing_limit must be positive")
	}
	if c.Scanner.TopN <= 0 {
		return fmt.Errorf("config: scanner top_n must be positive")
	}
	if c.Scanner.EnrichInterval <= 0 {
		return fmt.Errorf("config: scanner enrich_interval must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server port %d out of range", c.Server.Port)
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return nil
}
