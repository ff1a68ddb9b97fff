package model

import (
	"fmt"
	"math"
	"time"
)

// UnitSizing holds the units bought per bearish regime and sold per bullish regime.
type UnitSizing struct {
	ExtremeBearish  float64 `yaml:"extreme_bearish" json:"extreme_bearish"`
	Bearish         float64 `yaml:"bearish" json:"bearish"`
	SidewaysBearish float64 `yaml:"sideways_bearish" json:"sideways_bearish"`
	Bullish         float64 `yaml:"bullish" json:"bullish"`
	ExtremeBullish  float64 `yaml:"extreme_bullish" json:"extreme_bullish"`
}

// Validate checks that every size is a finite non-negative number.
func (u UnitSizing) Validate() error {
	sizes := []struct {
		name string
		v    float64
	}{
		{"extreme_bearish", u.ExtremeBearish},
		{"bearish", u.Bearish},
		{"sideways_bearish", u.SidewaysBearish},
		{"bullish", u.Bullish},
		{"extreme_bullish", u.ExtremeBullish},
	}
	for _, s := range sizes {
		if math.IsNaN(s.v) || math.IsInf(s.v, 0) || s.v < 0 {
			return fmt.Errorf("%w: units.%s must be a non-negative number, got %g", ErrInvalidInput, s.name, s.v)
		}
	}
	return nil
}

// SimulationState is the running accumulator of a single replay.
type SimulationState struct {
	Cash       float64
	TotalUnits float64
	Invested   float64
	Withdrawn  float64
}

// LedgerRow is the state of the replay after one classified record.
type LedgerRow struct {
	Date           time.Time `json:"date"`
	Category       Category  `json:"category"`
	ClosePrice     float64   `json:"close_price"`
	UnitsBought    float64   `json:"units_bought"`
	UnitsSold      float64   `json:"units_sold"`
	TotalUnitsHeld float64   `json:"total_units_held"`
	PortfolioValue float64   `json:"portfolio_value"`
	TotalInvested  float64   `json:"total_invested"`
	TotalWithdrawn float64   `json:"total_withdrawn"`
	RemainingCash  float64   `json:"remaining_cash"`
}

// SummaryRow holds the performance metrics derived from the final ledger row.
type SummaryRow struct {
	FinalPortfolioValue float64 `json:"final_portfolio_value"`
	RemainingCash       float64 `json:"remaining_cash"`
	TotalInvested       float64 `json:"total_invested"`
	TotalWithdrawn      float64 `json:"total_withdrawn"`
	NetProfit           float64 `json:"net_profit"`
	CAGROnCapital       float64 `json:"cagr_on_capital"`
}
