package backtest

import (
	"fmt"
	"math"

	"CagrSentinel/internal/model"
)

// Params are the caller-supplied knobs of one run.
type Params struct {
	HoldingPeriod   int              `yaml:"holding_period" json:"holding_period"`
	StartingCapital float64          `yaml:"starting_capital" json:"starting_capital"`
	Thresholds      model.Thresholds `yaml:"thresholds" json:"thresholds"`
	Sizing          model.UnitSizing `yaml:"units" json:"units"`
}

// DefaultParams returns the stock configuration: a 250-position holding
// period, 2.5M starting capital, cut points 0/6/10/12/15% and buy sizes
// 2/1/0.5 with sell sizes 0.5/1.
func DefaultParams() Params {
	return Params{
		HoldingPeriod:   250,
		StartingCapital: 2_500_000,
		Thresholds: model.Thresholds{
			ExtremeBearish:  0,
			Bearish:         0.06,
			SidewaysBearish: 0.10,
			Neutral:         0.12,
			Bullish:         0.15,
		},
		Sizing: model.UnitSizing{
			ExtremeBearish:  2,
			Bearish:         1,
			SidewaysBearish: 0.5,
			Bullish:         0.5,
			ExtremeBullish:  1,
		},
	}
}

// Validate checks the parameters before any computation starts.
func (p Params) Validate() error {
	if p.HoldingPeriod <= 0 {
		return fmt.Errorf("%w: holding_period must be positive, got %d", model.ErrInvalidInput, p.HoldingPeriod)
	}
	if math.IsNaN(p.StartingCapital) || math.IsInf(p.StartingCapital, 0) || p.StartingCapital < 0 {
		return fmt.Errorf("%w: starting_capital must be a non-negative number, got %g", model.ErrInvalidInput, p.StartingCapital)
	}
	if err := p.Thresholds.Validate(); err != nil {
		return err
	}
	return p.Sizing.Validate()
}
