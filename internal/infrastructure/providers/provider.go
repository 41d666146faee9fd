package providers

import (
	"context"
	"errors"
	"time"
)

// ErrNoScore is returned when no extraction strategy can pull a score
// out of an enrichment response.
var ErrNoScore = errors.New("no score found in enrichment response")

// RawListing is one market-data row as delivered by a listing provider,
// before normalization. Missing numeric fields decode to zero and are
// defaulted during normalization, not here.
type RawListing struct {
	ID              int64   `json:"id"`
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	PriceUSD        float64 `json:"price_usd"`
	PercentChange24 float64 `json:"percent_change_24h"`
	MarketCapUSD    float64 `json:"market_cap_usd"`
	Volume24hUSD    float64 `json:"volume_24h_usd"`
	Rank            int     `json:"rank"`
}

// ListingResult is a full top-K listings fetch. Fallback is set when the
// rows came from the built-in sample set rather than the live API.
type ListingResult struct {
	Listings  []RawListing `json:"listings"`
	Fallback  bool         `json:"fallback"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// ListingProvider fetches the top K listings sorted by market cap,
// quoted in USD. Implementations must degrade to sample data instead of
// failing outright; an error is returned only for context cancellation.
type ListingProvider interface {
	TopListings(ctx context.Context, limit int) (*ListingResult, error)
}

// SubMetrics is a named set of 0-100 sub-metric values for one scoring
// category.
type SubMetrics map[string]float64

// TokenScores carries the four sub-metric groups for one token as
// returned by the enrichment provider. Fallback marks responses the
// provider itself flagged as degraded.
type TokenScores struct {
	Symbol      string     `json:"symbol"`
	Narrative   SubMetrics `json:"narrative_momentum"`
	Social      SubMetrics `json:"social_hype"`
	Network     SubMetrics `json:"network_usage"`
	Fundamental SubMetrics `json:"fundamental_strength"`
	Fallback    bool       `json:"fallback"`
}

// EnrichmentProvider scores one token across the four scoring
// dimensions. Errors trigger fallback scoring for that token only.
type EnrichmentProvider interface {
	ScoreToken(ctx context.Context, symbol, name string) (*TokenScores, error)
}

// ListingCache is the subset of the cache layer the listings provider
// needs. Satisfied by cache.Redis.
type ListingCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, val string, ttl time.Duration) error
}
