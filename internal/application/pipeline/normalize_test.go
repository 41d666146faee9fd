package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panicdrop/altscan/internal/domain"
	"github.com/panicdrop/altscan/internal/infrastructure/providers"
)

func TestNormalize_FullRow(t *testing.T) {
	token := Normalize(providers.RawListing{
		ID: 1, Symbol: "btc", Name: "Bitcoin", Rank: 1,
		PriceUSD: 43250.50, PercentChange24: 2.5,
		MarketCapUSD: 847_500_000_000, Volume24hUSD: 15_200_000_000,
	})

	assert.Equal(t, "BTC", token.Symbol)
	assert.Equal(t, 1, token.Rank)
	assert.Equal(t, "$43,251", token.PriceDisplay)
	assert.Equal(t, "+2.50%", token.ChangeDisplay)
	assert.Equal(t, "$847.5B", token.MarketCapDisplay)
	assert.Equal(t, domain.CategoryCrypto, token.Category)

	// Scoring fields start zeroed: neither path has run yet.
	assert.Zero(t, token.TotalScore)
	assert.Zero(t, token.NarrativeScore)
	assert.False(t, token.HasAIData)
	assert.False(t, token.Scored())
}

func TestNormalize_MissingFieldsDefault(t *testing.T) {
	// A row missing price/cap/rank must not break normalization.
	token := Normalize(providers.RawListing{ID: 99, Symbol: "XYZ", Name: "Mystery"})

	assert.Equal(t, domain.RankSentinel, token.Rank)
	assert.Zero(t, token.PriceUSD)
	assert.Zero(t, token.MarketCapUSD)
	assert.Equal(t, "$0.000000", token.PriceDisplay)
	assert.Equal(t, "$0", token.MarketCapDisplay)
}

func TestNormalize_NegativeValuesZeroed(t *testing.T) {
	token := Normalize(providers.RawListing{
		Symbol: "BAD", PriceUSD: -5, MarketCapUSD: -1, Volume24hUSD: -2, Rank: -3,
	})
	assert.Zero(t, token.PriceUSD)
	assert.Zero(t, token.MarketCapUSD)
	assert.Zero(t, token.Volume24hUSD)
	assert.Equal(t, domain.RankSentinel, token.Rank)
}

func TestNormalizeAll_DeduplicatesSymbols(t *testing.T) {
	tokens := NormalizeAll([]providers.RawListing{
		{Symbol: "BTC", Name: "Bitcoin", Rank: 1},
		{Symbol: "btc", Name: "Bitcoin Clone", Rank: 200},
		{Symbol: "", Name: "nameless"},
		{Symbol: "ETH", Name: "Ethereum", Rank: 2},
	})

	require.Len(t, tokens, 2)
	assert.Equal(t, "BTC", tokens[0].Symbol)
	assert.Equal(t, "Bitcoin", tokens[0].Name) // first occurrence wins
	assert.Equal(t, "ETH", tokens[1].Symbol)
}
