package calculator

import (
	"fmt"
	"math"
	"time"

	"CagrSentinel/internal/model"
)

// DaysPerYear converts a calendar-day span into years.
const DaysPerYear = 365.25

// AnnualizedRate computes the compound annual growth rate between two closes
// that are holdingPeriod trading positions apart.
func AnnualizedRate(entryClose, exitClose float64, holdingPeriod int) (float64, error) {
	if holdingPeriod <= 0 {
		return 0, fmt.Errorf("%w: holding period must be positive, got %d", model.ErrInvalidInput, holdingPeriod)
	}
	if entryClose <= 0 || exitClose <= 0 {
		return 0, fmt.Errorf("%w: non-positive close (entry=%g, exit=%g)", model.ErrDomain, entryClose, exitClose)
	}
	rate := math.Pow(exitClose/entryClose, float64(model.TradingDaysPerYear)/float64(holdingPeriod)) - 1
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, fmt.Errorf("%w: rate overflow (entry=%g, exit=%g)", model.ErrDomain, entryClose, exitClose)
	}
	return rate, nil
}

// SpanYears returns the whole-day distance between two dates expressed in years.
// Partial days are dropped.
func SpanYears(first, last time.Time) float64 {
	days := math.Floor(last.Sub(first).Hours() / 24)
	return days / DaysPerYear
}

// CAGROnCapital annualizes finalValue against the starting capital over years.
// A non-positive capital yields 0 before the span is looked at.
func CAGROnCapital(finalValue, capital, years float64) (float64, error) {
	if capital <= 0 {
		return 0, nil
	}
	if years <= 0 {
		return 0, fmt.Errorf("%w: cannot annualize over %.4f years", model.ErrDegenerateSpan, years)
	}
	return math.Pow(finalValue/capital, 1/years) - 1, nil
}
