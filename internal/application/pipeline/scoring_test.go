package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panicdrop/altscan/internal/domain"
	"github.com/panicdrop/altscan/internal/infrastructure/providers"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := NewScorer(domain.DefaultScoreWeights)
	require.NoError(t, err)
	return s
}

func TestNewScorer_RejectsBadWeights(t *testing.T) {
	_, err := NewScorer(domain.ScoreWeights{Narrative: 0.9, Social: 0.9, Network: 0.9, Fundamental: 0.9})
	assert.Error(t, err)
}

func TestAggregateSubScores(t *testing.T) {
	tests := []struct {
		name     string
		metrics  providers.SubMetrics
		expected float64
	}{
		{"empty is defined, not an error", providers.SubMetrics{}, 0},
		{"nil map", nil, 0},
		{"single value", providers.SubMetrics{"a": 70}, 70},
		{"mean", providers.SubMetrics{"a": 60, "b": 80}, 70},
		{"rounds half up", providers.SubMetrics{"a": 76, "b": 77}, 77}, // 76.5
		{"clamps above 100", providers.SubMetrics{"a": 250}, 100},
		{"clamps below 0", providers.SubMetrics{"a": -40}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AggregateSubScores(tt.metrics))
		})
	}
}

func TestApplyScores_WeightedComposite(t *testing.T) {
	s := newTestScorer(t)

	token := domain.Token{Symbol: "SOL", Rank: 5}
	s.ApplyScores(&token, &providers.TokenScores{
		Symbol:      "SOL",
		Narrative:   providers.SubMetrics{"a": 80},
		Social:      providers.SubMetrics{"a": 60},
		Network:     providers.SubMetrics{"a": 70},
		Fundamental: providers.SubMetrics{"a": 90},
	})

	// 80*0.25 + 60*0.20 + 70*0.25 + 90*0.30 = 76.5, half-up -> 77.
	assert.Equal(t, 77.0, token.TotalScore)
	assert.True(t, token.HasAIData)
	assert.Equal(t, 80.0, token.NarrativeScore)
	assert.Equal(t, 90.0, token.FundamentalScore)
}

func TestApplyScores_PartialDataStillScores(t *testing.T) {
	s := newTestScorer(t)

	token := domain.Token{Symbol: "DOT", Rank: 12}
	s.ApplyScores(&token, &providers.TokenScores{
		Symbol:    "DOT",
		Narrative: providers.SubMetrics{"a": 100},
		// Social/Network/Fundamental missing: aggregate to 0.
	})

	assert.Equal(t, 25.0, token.TotalScore) // 100*0.25
	assert.True(t, token.HasAIData)
	assert.Zero(t, token.SocialScore)
}

func TestApplyScores_ProviderFlaggedFallback(t *testing.T) {
	s := newTestScorer(t)

	token := domain.Token{Symbol: "ETH", Rank: 2}
	s.ApplyScores(&token, &providers.TokenScores{Symbol: "ETH", Fallback: true})

	assert.False(t, token.HasAIData)
	assert.Greater(t, token.TotalScore, 0.0)
}

func TestApplyFallback_BoundsForRank10(t *testing.T) {
	s := newTestScorer(t)

	// base = max(20, 100-10) = 90, noise in [-10,+10]: every sub-score
	// lands in [80,100]. Values are random; pin the bounds only.
	for i := 0; i < 200; i++ {
		token := domain.Token{Symbol: "X", Rank: 10}
		s.ApplyFallback(&token)

		for _, sub := range []float64{
			token.NarrativeScore, token.SocialScore, token.NetworkScore, token.FundamentalScore,
		} {
			assert.GreaterOrEqual(t, sub, 80.0)
			assert.LessOrEqual(t, sub, 100.0)
		}
		assert.GreaterOrEqual(t, token.TotalScore, 80.0)
		assert.LessOrEqual(t, token.TotalScore, 100.0)
		assert.False(t, token.HasAIData)
	}
}

func TestApplyFallback_DeepRankFloors(t *testing.T) {
	s := newTestScorer(t)

	// base = max(20, 100-999) = 20: sub-scores in [10,30].
	for i := 0; i < 100; i++ {
		token := domain.Token{Symbol: "Y", Rank: domain.RankSentinel}
		s.ApplyFallback(&token)

		for _, sub := range []float64{
			token.NarrativeScore, token.SocialScore, token.NetworkScore, token.FundamentalScore,
		} {
			assert.GreaterOrEqual(t, sub, 10.0)
			assert.LessOrEqual(t, sub, 30.0)
		}
	}
}

func TestScoring_ClampInvariant(t *testing.T) {
	s := newTestScorer(t)

	token := domain.Token{Symbol: "Z", Rank: 1}
	s.ApplyScores(&token, &providers.TokenScores{
		Symbol:      "Z",
		Narrative:   providers.SubMetrics{"a": 500},
		Social:      providers.SubMetrics{"a": -200},
		Network:     providers.SubMetrics{"a": 100},
		Fundamental: providers.SubMetrics{"a": 100},
	})

	for _, v := range []float64{
		token.NarrativeScore, token.SocialScore, token.NetworkScore,
		token.FundamentalScore, token.TotalScore,
	} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}
