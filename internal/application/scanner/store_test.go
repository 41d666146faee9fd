package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panicdrop/altscan/internal/domain"
)

func TestTokenStore_ReplaceAndSnapshot(t *testing.T) {
	store := NewTokenStore()

	ok := store.Replace(1, []domain.Token{{Symbol: "BTC"}, {Symbol: "ETH"}}, false)
	require.True(t, ok)

	snap := store.Snapshot()
	assert.Equal(t, uint64(1), snap.Generation)
	assert.Len(t, snap.Tokens, 2)
	assert.False(t, snap.Fallback)
	assert.False(t, snap.UpdatedAt.IsZero())
}

func TestTokenStore_OlderGenerationCannotReplace(t *testing.T) {
	store := NewTokenStore()
	require.True(t, store.Replace(2, []domain.Token{{Symbol: "NEW"}}, false))

	assert.False(t, store.Replace(1, []domain.Token{{Symbol: "OLD"}}, false))
	assert.Equal(t, "NEW", store.Snapshot().Tokens[0].Symbol)
}

func TestTokenStore_MutateDiscardsStaleGeneration(t *testing.T) {
	store := NewTokenStore()
	require.True(t, store.Replace(1, []domain.Token{{Symbol: "BTC"}}, false))
	require.True(t, store.Replace(2, []domain.Token{{Symbol: "BTC"}}, false))

	// A write tagged with the superseded generation must be dropped.
	applied := store.Mutate(1, "BTC", func(tok *domain.Token) {
		tok.TotalScore = 99
	})
	assert.False(t, applied)
	assert.Zero(t, store.Snapshot().Tokens[0].TotalScore)

	applied = store.Mutate(2, "BTC", func(tok *domain.Token) {
		tok.TotalScore = 77
	})
	assert.True(t, applied)
	assert.Equal(t, 77.0, store.Snapshot().Tokens[0].TotalScore)
}

func TestTokenStore_MutateUnknownSymbol(t *testing.T) {
	store := NewTokenStore()
	require.True(t, store.Replace(1, []domain.Token{{Symbol: "BTC"}}, false))
	assert.False(t, store.Mutate(1, "DOGE", func(*domain.Token) {}))
}

func TestTokenStore_SnapshotIsACopy(t *testing.T) {
	store := NewTokenStore()
	require.True(t, store.Replace(1, []domain.Token{{Symbol: "BTC"}}, false))

	snap := store.Snapshot()
	snap.Tokens[0].TotalScore = 100

	assert.Zero(t, store.Snapshot().Tokens[0].TotalScore)
}
