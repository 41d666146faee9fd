package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/panicdrop/altscan/internal/infrastructure/breakers"
	"github.com/panicdrop/altscan/internal/telemetry"
)

// CMCConfig configures the CoinMarketCap-style listings client.
type CMCConfig struct {
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"-"` // from env, never config files
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// DefaultCMCConfig returns the free-tier production endpoint settings.
func DefaultCMCConfig() CMCConfig {
	return CMCConfig{
		BaseURL:  "https://pro-api.coinmarketcap.com/v1",
		Timeout:  10 * time.Second,
		CacheTTL: 60 * time.Second,
	}
}

// CoinMarketCapProvider implements ListingProvider against the CMC
// listings endpoint, with a circuit breaker and an optional Redis cache
// in front of it. Provider failure is absorbed: callers always get rows,
// flagged as fallback when they are the built-in sample set.
type CoinMarketCapProvider struct {
	name    string
	cfg     CMCConfig
	client  *http.Client
	breaker *breakers.Breaker
	cache   ListingCache
	metrics *telemetry.Metrics
}

// NewCoinMarketCap creates a listings provider. cache may be nil.
func NewCoinMarketCap(cfg CMCConfig, cache ListingCache) *CoinMarketCapProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultCMCConfig().BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultCMCConfig().Timeout
	}
	return &CoinMarketCapProvider{
		name:    "coinmarketcap",
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: breakers.New("coinmarketcap"),
		cache:   cache,
	}
}

func (p *CoinMarketCapProvider) Name() string { return p.name }

// WithMetrics enables cache hit/miss counters. Returns the provider for
// chaining.
func (p *CoinMarketCapProvider) WithMetrics(m *telemetry.Metrics) *CoinMarketCapProvider {
	p.metrics = m
	return p
}

// BreakerState exposes the circuit state for health reporting.
func (p *CoinMarketCapProvider) BreakerState() string { return p.breaker.State() }

// TopListings fetches the top `limit` listings sorted by market cap in
// USD. Order of attempts: cache, live API through the breaker, built-in
// sample set. Only context cancellation is surfaced as an error.
func (p *CoinMarketCapProvider) TopListings(ctx context.Context, limit int) (*ListingResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("listings:top:%d", limit)
	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			var rows []RawListing
			if err := json.Unmarshal([]byte(cached), &rows); err == nil && len(rows) > 0 {
				if p.metrics != nil {
					p.metrics.CacheHits.Inc()
				}
				return &ListingResult{Listings: rows, FetchedAt: time.Now()}, nil
			}
		}
		if p.metrics != nil {
			p.metrics.CacheMisses.Inc()
		}
	}

	out, err := p.breaker.Execute(func() (any, error) {
		return p.fetchListings(ctx, limit)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn().Err(err).Str("provider", p.name).
			Msg("Listings fetch failed, serving sample fallback")
		return &ListingResult{
			Listings:  SampleListings(),
			Fallback:  true,
			FetchedAt: time.Now(),
		}, nil
	}

	rows := out.([]RawListing)
	if p.cache != nil {
		if payload, err := json.Marshal(rows); err == nil {
			if err := p.cache.Set(ctx, cacheKey, string(payload), p.cfg.CacheTTL); err != nil {
				log.Debug().Err(err).Msg("Listings cache write failed")
			}
		}
	}

	return &ListingResult{Listings: rows, FetchedAt: time.Now()}, nil
}

// cmcQuote mirrors the USD quote block of the listings payload.
type cmcQuote struct {
	Price           float64 `json:"price"`
	MarketCap       float64 `json:"market_cap"`
	Volume24h       float64 `json:"volume_24h"`
	PercentChange24 float64 `json:"percent_change_24h"`
}

type cmcRow struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	CMCRank int    `json:"cmc_rank"`
	Quote   struct {
		USD cmcQuote `json:"USD"`
	} `json:"quote"`
}

type cmcListingsResponse struct {
	Data []cmcRow `json:"data"`
}

func (p *CoinMarketCapProvider) fetchListings(ctx context.Context, limit int) ([]RawListing, error) {
	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("sort", "market_cap")
	params.Set("convert", "USD")

	fullURL := fmt.Sprintf("%s/cryptocurrency/listings/latest?%s", p.cfg.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.cfg.APIKey != "" {
		req.Header.Set("X-CMC_PRO_API_KEY", p.cfg.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result cmcListingsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("no listings in response")
	}

	rows := make([]RawListing, 0, len(result.Data))
	for _, row := range result.Data {
		rows = append(rows, RawListing{
			ID:              row.ID,
			Symbol:          row.Symbol,
			Name:            row.Name,
			PriceUSD:        row.Quote.USD.Price,
			PercentChange24: row.Quote.USD.PercentChange24,
			MarketCapUSD:    row.Quote.USD.MarketCap,
			Volume24hUSD:    row.Quote.USD.Volume24h,
			Rank:            row.CMCRank,
		})
	}
	return rows, nil
}
