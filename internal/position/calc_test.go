package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	res, err := Calculate(Input{
		PortfolioUSD: 10000,
		RiskPercent:  2,
		EntryPrice:   100,
		StopLoss:     90,
	})
	require.NoError(t, err)

	assert.InDelta(t, 200, res.RiskAmountUSD, 1e-9) // 2% of 10k
	assert.InDelta(t, 10, res.RiskPerToken, 1e-9)
	assert.InDelta(t, 20, res.PositionSize, 1e-9) // 200 / 10
	assert.InDelta(t, 2000, res.InvestmentUSD, 1e-9)
	assert.InDelta(t, 130, res.ThreeRTarget, 1e-9)
	assert.False(t, res.HasTarget)
	assert.Zero(t, res.RewardRisk)
}

func TestCalculate_WithTakeProfit(t *testing.T) {
	res, err := Calculate(Input{
		PortfolioUSD: 10000,
		RiskPercent:  1,
		EntryPrice:   2000,
		StopLoss:     1900,
		TakeProfit:   2400,
	})
	require.NoError(t, err)

	assert.InDelta(t, 100, res.RiskAmountUSD, 1e-9)
	assert.InDelta(t, 1, res.PositionSize, 1e-9)
	assert.True(t, res.HasTarget)
	assert.InDelta(t, 400, res.RewardUSD, 1e-9)
	assert.InDelta(t, 4.0, res.RewardRisk, 1e-9)
}

func TestCalculate_TightStopProducesLargeSize(t *testing.T) {
	// A tight stop means more tokens for the same dollar risk; the
	// investment can exceed the risk amount by orders of magnitude.
	res, err := Calculate(Input{
		PortfolioUSD: 5000,
		RiskPercent:  1,
		EntryPrice:   0.50,
		StopLoss:     0.48,
	})
	require.NoError(t, err)
	assert.InDelta(t, 2500, res.PositionSize, 1e-6) // 50 / 0.02
	assert.InDelta(t, 1250, res.InvestmentUSD, 1e-6)
}

func TestCalculate_Validation(t *testing.T) {
	valid := Input{PortfolioUSD: 10000, RiskPercent: 2, EntryPrice: 100, StopLoss: 90}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*Input)
	}{
		{"zero portfolio", func(in *Input) { in.PortfolioUSD = 0 }},
		{"zero risk", func(in *Input) { in.RiskPercent = 0 }},
		{"risk above 100", func(in *Input) { in.RiskPercent = 150 }},
		{"zero entry", func(in *Input) { in.EntryPrice = 0 }},
		{"zero stop", func(in *Input) { in.StopLoss = 0 }},
		{"stop at entry", func(in *Input) { in.StopLoss = 100 }},
		{"stop above entry", func(in *Input) { in.StopLoss = 110 }},
		{"take profit below entry", func(in *Input) { in.TakeProfit = 95 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, err := Calculate(in)
			assert.Error(t, err)
		})
	}
}
