package calculator

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"CagrSentinel/internal/model"
)

// RateStatistics summarizes the annualized rates of the classified windows.
func RateStatistics(records []model.ClassifiedRecord) model.RateStats {
	if len(records) == 0 {
		return model.RateStats{}
	}
	rates := make([]float64, len(records))
	for i, r := range records {
		rates[i] = r.AnnualizedRate
	}
	rs := model.RateStats{
		Mean: stat.Mean(rates, nil),
		Min:  floats.Min(rates),
		Max:  floats.Max(rates),
	}
	// sample std dev is undefined for a single window
	if len(rates) > 1 {
		rs.StdDev = stat.StdDev(rates, nil)
	}
	return rs
}
