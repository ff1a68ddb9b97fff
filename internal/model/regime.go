package model

import (
	"fmt"
	"math"
	"time"
)

// TradingDaysPerYear annualizes a window measured in trading positions.
const TradingDaysPerYear = 252

// Category is the market regime assigned to a rolling window.
type Category string

const (
	ExtremeBearish  Category = "Extreme Bearish"
	Bearish         Category = "Bearish"
	SidewaysBearish Category = "Sideways Bearish"
	Neutral         Category = "Neutral"
	Bullish         Category = "Bullish"
	ExtremeBullish  Category = "Extreme Bullish"
)

// Categories lists every regime from most bearish to most bullish.
var Categories = []Category{ExtremeBearish, Bearish, SidewaysBearish, Neutral, Bullish, ExtremeBullish}

// Thresholds are the five lower-inclusive cut points between regimes.
type Thresholds struct {
	ExtremeBearish  float64 `yaml:"extreme_bearish" json:"extreme_bearish"`
	Bearish         float64 `yaml:"bearish" json:"bearish"`
	SidewaysBearish float64 `yaml:"sideways_bearish" json:"sideways_bearish"`
	Neutral         float64 `yaml:"neutral" json:"neutral"`
	Bullish         float64 `yaml:"bullish" json:"bullish"`
}

// Validate rejects non-finite cut points and cut points that decrease.
// Equal neighbours are accepted and leave the bucket between them empty.
func (t Thresholds) Validate() error {
	cuts := []struct {
		name string
		v    float64
	}{
		{"extreme_bearish", t.ExtremeBearish},
		{"bearish", t.Bearish},
		{"sideways_bearish", t.SidewaysBearish},
		{"neutral", t.Neutral},
		{"bullish", t.Bullish},
	}
	for i, c := range cuts {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return fmt.Errorf("%w: thresholds.%s must be finite", ErrInvalidInput, c.name)
		}
		if i > 0 && c.v < cuts[i-1].v {
			return fmt.Errorf("%w: thresholds.%s (%g) is below thresholds.%s (%g)",
				ErrInvalidInput, c.name, c.v, cuts[i-1].name, cuts[i-1].v)
		}
	}
	return nil
}

// ClassifiedRecord pairs an entry observation with the observation
// HoldingPeriod positions later.
type ClassifiedRecord struct {
	EntryDate      time.Time `json:"entry_date"`
	EntryClose     float64   `json:"entry_close"`
	ExitDate       time.Time `json:"exit_date"`
	ExitClose      float64   `json:"exit_close"`
	AnnualizedRate float64   `json:"annualized_rate"`
	Category       Category  `json:"category"`
}
