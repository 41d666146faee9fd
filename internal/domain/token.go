package domain

import (
	"fmt"
	"math"
)

// Category is the coarse classification assigned to a token at
// normalization time. It never changes afterward.
type Category string

const (
	CategoryStablecoin Category = "stablecoin"
	CategoryMeme       Category = "meme"
	CategoryL1         Category = "l1"
	CategoryL2         Category = "l2"
	CategoryDeFi       Category = "defi"
	CategoryGaming     Category = "gaming"
	CategoryCrypto     Category = "crypto"
)

// Categories lists every valid category tag.
var Categories = []Category{
	CategoryStablecoin,
	CategoryMeme,
	CategoryL1,
	CategoryL2,
	CategoryDeFi,
	CategoryGaming,
	CategoryCrypto,
}

// RankSentinel is assigned when a provider row has no market-cap rank.
const RankSentinel = 999

// Token is one tradable asset snapshot. A Token is created fresh on every
// listings fetch and the whole collection is replaced on refresh; only the
// enrichment step mutates it in place (sub-scores and HasAIData).
type Token struct {
	ID     int64  `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`

	PriceUSD        float64 `json:"price_usd"`
	PercentChange24 float64 `json:"percent_change_24h"`
	MarketCapUSD    float64 `json:"market_cap_usd"`
	Volume24hUSD    float64 `json:"volume_24h_usd"`
	Rank            int     `json:"rank"`

	// Display strings follow the dashboard's tiered formatting. Bucket
	// filtering uses MarketCapUSD directly, never these.
	PriceDisplay     string `json:"price_display"`
	ChangeDisplay    string `json:"change_display"`
	MarketCapDisplay string `json:"market_cap_display"`

	Category Category `json:"category"`

	NarrativeScore   float64 `json:"narrative_score"`
	SocialScore      float64 `json:"social_score"`
	NetworkScore     float64 `json:"network_score"`
	FundamentalScore float64 `json:"fundamental_score"`
	TotalScore       float64 `json:"total_score"`
	HasAIData        bool    `json:"has_ai_data"`
}

// Scored reports whether the token has been through either scoring path.
func (t *Token) Scored() bool {
	return t.TotalScore > 0
}

// ScoreWeights defines how much each sub-score contributes to the
// composite total. Weights are process-wide configuration and must sum
// to 1.0; Validate is called once at startup and a violation is fatal.
type ScoreWeights struct {
	Narrative   float64 `yaml:"narrative" json:"narrative"`
	Social      float64 `yaml:"social" json:"social"`
	Network     float64 `yaml:"network" json:"network"`
	Fundamental float64 `yaml:"fundamental" json:"fundamental"`
}

// DefaultScoreWeights mirrors the production dashboard allocation.
var DefaultScoreWeights = ScoreWeights{
	Narrative:   0.25, // narrative momentum
	Social:      0.20, // social hype
	Network:     0.25, // network usage
	Fundamental: 0.30, // fundamental strength
}

const weightEpsilon = 1e-9

// Validate rejects weight sets that are negative or do not sum to 1.0.
func (w ScoreWeights) Validate() error {
	for name, v := range map[string]float64{
		"narrative":   w.Narrative,
		"social":      w.Social,
		"network":     w.Network,
		"fundamental": w.Fundamental,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("weight %s must be non-negative, got %v", name, v)
		}
	}
	sum := w.Narrative + w.Social + w.Network + w.Fundamental
	if math.Abs(sum-1.0) > weightEpsilon {
		return fmt.Errorf("weights must sum to 1.0, got %v", sum)
	}
	return nil
}

// MarketCapBucket is a coarse size classification used for filtering.
type MarketCapBucket string

const (
	BucketAll   MarketCapBucket = "all"
	BucketLarge MarketCapBucket = "large" // >= $10B
	BucketMid   MarketCapBucket = "mid"   // $1B - $10B
	BucketSmall MarketCapBucket = "small" // $100M - $1B
	BucketMicro MarketCapBucket = "micro" // < $100M
)

// ParseBucket maps a filter value to a bucket, defaulting to all.
func ParseBucket(s string) (MarketCapBucket, error) {
	switch MarketCapBucket(s) {
	case "", BucketAll:
		return BucketAll, nil
	case BucketLarge, BucketMid, BucketSmall, BucketMicro:
		return MarketCapBucket(s), nil
	}
	return BucketAll, fmt.Errorf("unknown market cap bucket %q", s)
}

// Contains reports whether a market cap (expressed in billions of USD)
// falls inside the bucket.
func (b MarketCapBucket) Contains(capBillions float64) bool {
	switch b {
	case BucketLarge:
		return capBillions >= 10
	case BucketMid:
		return capBillions >= 1 && capBillions < 10
	case BucketSmall:
		return capBillions >= 0.1 && capBillions < 1
	case BucketMicro:
		return capBillions < 0.1
	default:
		return true
	}
}

// FilterCriteria is an immutable per-request value object describing the
// user's Top-N filter selection.
type FilterCriteria struct {
	Category           string          `json:"category"` // category tag or "all"
	Bucket             MarketCapBucket `json:"bucket"`
	ExcludeStablecoins bool            `json:"exclude_stablecoins"`
	ExcludeMemecoins   bool            `json:"exclude_memecoins"`
}

// NoFilter matches every token.
var NoFilter = FilterCriteria{Category: "all", Bucket: BucketAll}
