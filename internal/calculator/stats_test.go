package calculator

import (
	"math"
	"testing"

	"CagrSentinel/internal/model"
)

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{100}, 0},
		{"rising", []float64{100, 110, 120}, 0},
		{"one dip", []float64{100, 80, 120}, 0.2},
		{"deeper later", []float64{100, 90, 200, 100, 150}, 0.5},
		{"new low after recovery", []float64{100, 80, 120, 60, 90}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxDrawdown(tt.values); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("MaxDrawdown(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestRateStatistics(t *testing.T) {
	if got := RateStatistics(nil); got != (model.RateStats{}) {
		t.Errorf("empty input: got %+v", got)
	}

	one := RateStatistics([]model.ClassifiedRecord{{AnnualizedRate: 0.05}})
	if one.Mean != 0.05 || one.StdDev != 0 || one.Min != 0.05 || one.Max != 0.05 {
		t.Errorf("single window: got %+v", one)
	}

	st := RateStatistics([]model.ClassifiedRecord{{AnnualizedRate: 0.1}, {AnnualizedRate: 0.3}})
	if math.Abs(st.Mean-0.2) > 1e-12 {
		t.Errorf("mean = %v, want 0.2", st.Mean)
	}
	if math.Abs(st.StdDev-math.Sqrt(0.02)) > 1e-12 {
		t.Errorf("std dev = %v, want %v", st.StdDev, math.Sqrt(0.02))
	}
	if st.Min != 0.1 || st.Max != 0.3 {
		t.Errorf("min/max = %v/%v", st.Min, st.Max)
	}

	three := RateStatistics([]model.ClassifiedRecord{{AnnualizedRate: 0.1}, {AnnualizedRate: 0.3}, {AnnualizedRate: -0.1}})
	if math.Abs(three.Mean-0.1) > 1e-12 || math.Abs(three.StdDev-0.2) > 1e-12 {
		t.Errorf("three windows: got %+v", three)
	}
	if three.Min != -0.1 || three.Max != 0.3 {
		t.Errorf("three windows min/max = %v/%v", three.Min, three.Max)
	}
}
