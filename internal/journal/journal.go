// Package journal records executed trades and derives performance
// statistics (win rate, R-multiples, expectancy) from the closed ones.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Trade sides.
const (
	SideLong  = "long"
	SideShort = "short"
)

// ErrNotFound is returned when a trade ID does not exist.
var ErrNotFound = errors.New("journal: trade not found")

var errExitPrice = errors.New("journal: exit price must be positive")

// Trade is one journal entry. A trade with a zero ExitPrice is still
// open and excluded from statistics.
type Trade struct {
	ID         int64      `db:"id" json:"id"`
	Symbol     string     `db:"symbol" json:"symbol"`
	Side       string     `db:"side" json:"side"`
	Quantity   float64    `db:"qty" json:"quantity"`
	EntryPrice float64    `db:"entry_price" json:"entry_price"`
	StopLoss   float64    `db:"stop_loss" json:"stop_loss"`
	ExitPrice  float64    `db:"exit_price" json:"exit_price"`
	Notes      string     `db:"notes" json:"notes,omitempty"`
	OpenedAt   time.Time  `db:"opened_at" json:"opened_at"`
	ClosedAt   *time.Time `db:"closed_at" json:"closed_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// Validate checks the fields a new entry must carry.
func (t *Trade) Validate() error {
	if strings.TrimSpace(t.Symbol) == "" {
		return fmt.Errorf("journal: symbol is required")
	}
	if t.Side != SideLong && t.Side != SideShort {
		return fmt.Errorf("journal: side must be %q or %q", SideLong, SideShort)
	}
	if t.Quantity <= 0 {
		return fmt.Errorf("journal: quantity must be positive")
	}
	if t.EntryPrice <= 0 {
		return fmt.Errorf("journal: entry price must be positive")
	}
	if t.StopLoss < 0 {
		return fmt.Errorf("journal: stop loss cannot be negative")
	}
	if t.Side == SideLong && t.StopLoss >= t.EntryPrice {
		return fmt.Errorf("journal: long stop loss must be below entry")
	}
	if t.Side == SideShort && t.StopLoss != 0 && t.StopLoss <= t.EntryPrice {
		return fmt.Errorf("journal: short stop loss must be above entry")
	}
	return nil
}

// Closed reports whether the trade has an exit recorded.
func (t *Trade) Closed() bool { return t.ExitPrice > 0 }

// PnL is the realized profit in quote currency. Zero for open trades.
func (t *Trade) PnL() float64 {
	if !t.Closed() {
		return 0
	}
	if t.Side == SideShort {
		return (t.EntryPrice - t.ExitPrice) * t.Quantity
	}
	return (t.ExitPrice - t.EntryPrice) * t.Quantity
}

// RMultiple expresses the realized result in units of initial risk
// (entry to stop distance). The second return is false for open trades
// or trades recorded without a stop.
func (t *Trade) RMultiple() (float64, bool) {
	if !t.Closed() || t.StopLoss == 0 {
		return 0, false
	}
	var risk, gain float64
	if t.Side == SideShort {
		risk = t.StopLoss - t.EntryPrice
		gain = t.EntryPrice - t.ExitPrice
	} else {
		risk = t.EntryPrice - t.StopLoss
		gain = t.ExitPrice - t.EntryPrice
	}
	if risk <= 0 {
		return 0, false
	}
	return gain / risk, true
}

// Stats summarizes closed trades.
type Stats struct {
	TotalTrades  int     `json:"total_trades"`
	OpenTrades   int     `json:"open_trades"`
	ClosedTrades int     `json:"closed_trades"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"` // 0..1 over closed trades
	NetPnL       float64 `json:"net_pnl"`
	ProfitFactor float64 `json:"profit_factor"` // gross profit / gross loss
	AvgR         float64 `json:"avg_r"`
	BestR        float64 `json:"best_r"`
	WorstR       float64 `json:"worst_r"`
	Expectancy   float64 `json:"expectancy"` // average PnL per closed trade
}

// ComputeStats derives summary statistics. Break-even closes count as
// losses so the win rate stays conservative.
func ComputeStats(trades []Trade) Stats {
	var s Stats
	s.TotalTrades = len(trades)

	var grossProfit, grossLoss float64
	var rSum float64
	var rCount int

	for i := range trades {
		t := &trades[i]
		if !t.Closed() {
			s.OpenTrades++
			continue
		}
		s.ClosedTrades++

		pnl := t.PnL()
		s.NetPnL += pnl
		if pnl > 0 {
			s.Wins++
			grossProfit += pnl
		} else {
			s.Losses++
			grossLoss += -pnl
		}

		if r, ok := t.RMultiple(); ok {
			rSum += r
			rCount++
			if rCount == 1 || r > s.BestR {
				s.BestR = r
			}
			if rCount == 1 || r < s.WorstR {
				s.WorstR = r
			}
		}
	}

	if s.ClosedTrades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.ClosedTrades)
		s.Expectancy = s.NetPnL / float64(s.ClosedTrades)
	}
	if grossLoss > 0 {
		s.ProfitFactor = grossProfit / grossLoss
	}
	if rCount > 0 {
		s.AvgR = rSum / float64(rCount)
	}

	return s
}

// Store persists journal entries.
type Store interface {
	Insert(ctx context.Context, trade *Trade) error
	Close(ctx context.Context, id int64, exitPrice float64, closedAt time.Time) error
	Get(ctx context.Context, id int64) (*Trade, error)
	List(ctx context.Context, limit int) ([]Trade, error)
	Delete(ctx context.Context, id int64) error
}
