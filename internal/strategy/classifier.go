package strategy

import (
	"fmt"

	"CagrSentinel/internal/calculator"
	"CagrSentinel/internal/model"
)

// Categorize maps an annualized rate to a regime.
// The intervals are tested in order and the first match wins, so a
// non-ascending threshold set is evaluated as written.
func Categorize(rate float64, th model.Thresholds) model.Category {
	switch {
	case rate < th.ExtremeBearish:
		return model.ExtremeBearish
	case th.ExtremeBearish <= rate && rate < th.Bearish:
		return model.Bearish
	case th.Bearish <= rate && rate < th.SidewaysBearish:
		return model.SidewaysBearish
	case th.SidewaysBearish <= rate && rate < th.Neutral:
		return model.Neutral
	case th.Neutral <= rate && rate < th.Bullish:
		return model.Bullish
	default:
		return model.ExtremeBullish
	}
}

// Classify pairs every close with the close holdingPeriod positions later
// and labels the window by its annualized rate.
// The last holdingPeriod points never open a window; a series of at most
// holdingPeriod points yields no records.
func Classify(series []model.PricePoint, holdingPeriod int, th model.Thresholds) ([]model.ClassifiedRecord, error) {
	if holdingPeriod <= 0 {
		return nil, fmt.Errorf("%w: holding period must be positive, got %d", model.ErrInvalidInput, holdingPeriod)
	}
	n := len(series) - holdingPeriod
	if n <= 0 {
		return []model.ClassifiedRecord{}, nil
	}

	records := make([]model.ClassifiedRecord, 0, n)
	for i := 0; i < n; i++ {
		entry := series[i]
		exit := series[i+holdingPeriod]
		rate, err := calculator.AnnualizedRate(entry.Close, exit.Close, holdingPeriod)
		if err != nil {
			return nil, fmt.Errorf("window %s → %s: %w",
				entry.Date.Format("2006-01-02"), exit.Date.Format("2006-01-02"), err)
		}
		records = append(records, model.ClassifiedRecord{
			EntryDate:      entry.Date,
			EntryClose:     entry.Close,
			ExitDate:       exit.Date,
			ExitClose:      exit.Close,
			AnnualizedRate: rate,
			Category:       Categorize(rate, th),
		})
	}
	return records, nil
}
