package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedAt(t time.Time) *time.Time { return &t }

func TestTrade_Validate(t *testing.T) {
	base := Trade{Symbol: "BTC", Side: SideLong, Quantity: 0.5, EntryPrice: 43000, StopLoss: 41000}
	require.NoError(t, base.Validate())

	cases := []struct {
		name   string
		mutate func(*Trade)
	}{
		{"empty symbol", func(tr *Trade) { tr.Symbol = "  " }},
		{"bad side", func(tr *Trade) { tr.Side = "hodl" }},
		{"zero quantity", func(tr *Trade) { tr.Quantity = 0 }},
		{"zero entry", func(tr *Trade) { tr.EntryPrice = 0 }},
		{"negative stop", func(tr *Trade) { tr.StopLoss = -1 }},
		{"long stop above entry", func(tr *Trade) { tr.StopLoss = 44000 }},
		{"short stop below entry", func(tr *Trade) { tr.Side = SideShort; tr.StopLoss = 41000 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := base
			tc.mutate(&tr)
			assert.Error(t, tr.Validate())
		})
	}
}

func TestTrade_PnLAndRMultiple(t *testing.T) {
	long := Trade{Symbol: "ETH", Side: SideLong, Quantity: 2,
		EntryPrice: 2000, StopLoss: 1900, ExitPrice: 2300}
	assert.InDelta(t, 600, long.PnL(), 1e-9)
	r, ok := long.RMultiple()
	require.True(t, ok)
	assert.InDelta(t, 3.0, r, 1e-9) // 300 gain / 100 risk

	short := Trade{Symbol: "SOL", Side: SideShort, Quantity: 10,
		EntryPrice: 150, StopLoss: 160, ExitPrice: 130}
	assert.InDelta(t, 200, short.PnL(), 1e-9)
	r, ok = short.RMultiple()
	require.True(t, ok)
	assert.InDelta(t, 2.0, r, 1e-9)

	open := Trade{Symbol: "BTC", Side: SideLong, Quantity: 1, EntryPrice: 43000, StopLoss: 41000}
	assert.Zero(t, open.PnL())
	_, ok = open.RMultiple()
	assert.False(t, ok)

	noStop := Trade{Symbol: "BTC", Side: SideLong, Quantity: 1, EntryPrice: 43000, ExitPrice: 45000}
	_, ok = noStop.RMultiple()
	assert.False(t, ok)
}

func TestComputeStats(t *testing.T) {
	now := time.Now()
	trades := []Trade{
		// +3R, +600
		{Symbol: "ETH", Side: SideLong, Quantity: 2, EntryPrice: 2000, StopLoss: 1900, ExitPrice: 2300, ClosedAt: closedAt(now)},
		// -1R, -100
		{Symbol: "SOL", Side: SideLong, Quantity: 1, EntryPrice: 150, StopLoss: 50, ExitPrice: 50, ClosedAt: closedAt(now)},
		// open, ignored
		{Symbol: "BTC", Side: SideLong, Quantity: 1, EntryPrice: 43000, StopLoss: 41000},
	}

	s := ComputeStats(trades)
	assert.Equal(t, 3, s.TotalTrades)
	assert.Equal(t, 1, s.OpenTrades)
	assert.Equal(t, 2, s.ClosedTrades)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.InDelta(t, 0.5, s.WinRate, 1e-9)
	assert.InDelta(t, 500, s.NetPnL, 1e-9)
	assert.InDelta(t, 6.0, s.ProfitFactor, 1e-9) // 600 / 100
	assert.InDelta(t, 1.0, s.AvgR, 1e-9)         // (3 + -1) / 2
	assert.InDelta(t, 3.0, s.BestR, 1e-9)
	assert.InDelta(t, -1.0, s.WorstR, 1e-9)
	assert.InDelta(t, 250, s.Expectancy, 1e-9)
}

func TestComputeStats_Empty(t *testing.T) {
	s := ComputeStats(nil)
	assert.Zero(t, s.TotalTrades)
	assert.Zero(t, s.WinRate)
	assert.Zero(t, s.ProfitFactor)
}

func TestComputeStats_BreakEvenCountsAsLoss(t *testing.T) {
	now := time.Now()
	trades := []Trade{
		{Symbol: "BTC", Side: SideLong, Quantity: 1, EntryPrice: 100, StopLoss: 90, ExitPrice: 100, ClosedAt: closedAt(now)},
	}
	s := ComputeStats(trades)
	assert.Equal(t, 1, s.Losses)
	assert.Zero(t, s.Wins)
	assert.Zero(t, s.WinRate)
}

func TestMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	trade := &Trade{Symbol: "BTC", Side: SideLong, Quantity: 0.5, EntryPrice: 43000, StopLoss: 41000}
	require.NoError(t, store.Insert(ctx, trade))
	assert.Equal(t, int64(1), trade.ID)
	assert.False(t, trade.OpenedAt.IsZero())

	got, err := store.Get(ctx, trade.ID)
	require.NoError(t, err)
	assert.Equal(t, "BTC", got.Symbol)
	assert.False(t, got.Closed())

	require.NoError(t, store.Close(ctx, trade.ID, 47000, time.Now()))
	got, err = store.Get(ctx, trade.ID)
	require.NoError(t, err)
	assert.True(t, got.Closed())
	assert.InDelta(t, 2000, got.PnL(), 1e-9)

	require.NoError(t, store.Delete(ctx, trade.ID))
	_, err = store.Get(ctx, trade.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Validation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.Insert(ctx, &Trade{Symbol: "", Side: SideLong, Quantity: 1, EntryPrice: 100})
	assert.Error(t, err)

	assert.ErrorIs(t, store.Close(ctx, 99, 100, time.Now()), ErrNotFound)
	assert.Error(t, store.Close(ctx, 1, 0, time.Now()))
	assert.ErrorIs(t, store.Delete(ctx, 99), ErrNotFound)
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i, sym := range []string{"BTC", "ETH", "SOL"} {
		tr := &Trade{Symbol: sym, Side: SideLong, Quantity: 1, EntryPrice: 100,
			OpenedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, store.Insert(ctx, tr))
	}

	trades, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "SOL", trades[0].Symbol)
	assert.Equal(t, "ETH", trades[1].Symbol)
}
