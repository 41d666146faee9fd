// Package position sizes trades from portfolio value and risk tolerance
// using fixed-fractional risk: the stop distance determines how many
// tokens a given dollar risk buys.
package position

import (
	"fmt"
)

// Input is one sizing request. TakeProfit is optional; zero means no
// target and no reward metrics in the result.
type Input struct {
	PortfolioUSD float64 `json:"portfolio_usd"`
	RiskPercent  float64 `json:"risk_percent"` // 0 < r <= 100
	EntryPrice   float64 `json:"entry_price"`
	StopLoss     float64 `json:"stop_loss"`
	TakeProfit   float64 `json:"take_profit,omitempty"`
}

// Result is the computed position.
type Result struct {
	RiskAmountUSD float64 `json:"risk_amount_usd"` // dollars at risk
	RiskPerToken  float64 `json:"risk_per_token"`  // entry to stop distance
	PositionSize  float64 `json:"position_size"`   // tokens to buy
	InvestmentUSD float64 `json:"investment_usd"`  // position cost at entry
	ThreeRTarget  float64 `json:"three_r_target"`  // exit at 3x initial risk

	// Populated only when TakeProfit is set.
	RewardUSD  float64 `json:"reward_usd,omitempty"`
	RewardRisk float64 `json:"reward_risk,omitempty"` // reward:risk ratio
	RewardToTP float64 `json:"reward_to_tp,omitempty"`
	HasTarget  bool    `json:"has_target"`
}

// Validate rejects inputs the calculator cannot size.
func (in Input) Validate() error {
	if in.PortfolioUSD <= 0 {
		return fmt.Errorf("position: portfolio value must be positive")
	}
	if in.RiskPercent <= 0 || in.RiskPercent > 100 {
		return fmt.Errorf("position: risk percent must be in (0, 100]")
	}
	if in.EntryPrice <= 0 {
		return fmt.Errorf("position: entry price must be positive")
	}
	if in.StopLoss <= 0 {
		return fmt.Errorf("position: stop loss must be positive")
	}
	if in.StopLoss >= in.EntryPrice {
		return fmt.Errorf("position: stop loss must be below entry price")
	}
	if in.TakeProfit != 0 && in.TakeProfit <= in.EntryPrice {
		return fmt.Errorf("position: take profit must be above entry price")
	}
	return nil
}

// Calculate sizes the position.
func Calculate(in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	riskAmount := in.PortfolioUSD * in.RiskPercent / 100
	riskPerToken := in.EntryPrice - in.StopLoss
	size := riskAmount / riskPerToken

	res := &Result{
		RiskAmountUSD: riskAmount,
		RiskPerToken:  riskPerToken,
		PositionSize:  size,
		InvestmentUSD: size * in.EntryPrice,
		ThreeRTarget:  in.EntryPrice + 3*riskPerToken,
	}

	if in.TakeProfit > 0 {
		res.HasTarget = true
		res.RewardToTP = in.TakeProfit - in.EntryPrice
		res.RewardUSD = res.RewardToTP * size
		res.RewardRisk = res.RewardToTP / riskPerToken
	}

	return res, nil
}
