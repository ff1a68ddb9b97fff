package strategy

import (
	"errors"
	"math"
	"testing"
	"time"

	"CagrSentinel/internal/model"
)

var defaultThresholds = model.Thresholds{
	ExtremeBearish:  0,
	Bearish:         0.06,
	SidewaysBearish: 0.10,
	Neutral:         0.12,
	Bullish:         0.15,
}

func flatSeries(n int, price float64) []model.PricePoint {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	pts := make([]model.PricePoint, n)
	for i := range pts {
		pts[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Close: price}
	}
	return pts
}

func TestCategorize_AllBoundaries(t *testing.T) {
	tests := []struct {
		rate float64
		want model.Category
	}{
		{-0.5, model.ExtremeBearish},
		{-0.0001, model.ExtremeBearish},
		{0, model.Bearish},
		{0.05, model.Bearish},
		{0.06, model.SidewaysBearish},
		{0.09, model.SidewaysBearish},
		{0.10, model.Neutral},
		{0.11, model.Neutral},
		{0.12, model.Bullish},
		{0.149, model.Bullish},
		{0.15, model.ExtremeBullish},
		{3.0, model.ExtremeBullish},
	}
	for _, tt := range tests {
		if got := Categorize(tt.rate, defaultThresholds); got != tt.want {
			t.Errorf("rate %.4f: expected %q, got %q", tt.rate, tt.want, got)
		}
	}
}

func TestCategorize_NonAscendingFollowsChain(t *testing.T) {
	// bearish cut below extreme_bearish: the Bearish interval is empty and
	// the rate falls through to Sideways Bearish
	th := model.Thresholds{ExtremeBearish: 0.05, Bearish: 0.01, SidewaysBearish: 0.10, Neutral: 0.12, Bullish: 0.15}
	if got := Categorize(0.07, th); got != model.SidewaysBearish {
		t.Errorf("expected %q, got %q", model.SidewaysBearish, got)
	}
	// every interval empty above the first cut: falls to the default branch
	th = model.Thresholds{ExtremeBearish: 0.5, Bearish: 0.4, SidewaysBearish: 0.3, Neutral: 0.2, Bullish: 0.1}
	if got := Categorize(0.6, th); got != model.ExtremeBullish {
		t.Errorf("expected %q, got %q", model.ExtremeBullish, got)
	}
	if got := Categorize(0.45, th); got != model.ExtremeBearish {
		t.Errorf("expected %q, got %q", model.ExtremeBearish, got)
	}
}

func TestCategorize_NaNFallsThrough(t *testing.T) {
	if got := Categorize(math.NaN(), defaultThresholds); got != model.ExtremeBullish {
		t.Errorf("expected %q, got %q", model.ExtremeBullish, got)
	}
}

func TestClassify_FlatSeries(t *testing.T) {
	records, err := Classify(flatSeries(252, 100), 250, defaultThresholds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for _, r := range records {
		if r.AnnualizedRate != 0 {
			t.Errorf("expected rate 0, got %.6f", r.AnnualizedRate)
		}
		if r.Category != model.Bearish {
			t.Errorf("expected %q, got %q", model.Bearish, r.Category)
		}
	}
}

func TestClassify_DoublingIsExtremeBullish(t *testing.T) {
	series := flatSeries(253, 100)
	series[252].Close = 200
	records, err := Classify(series, 252, defaultThresholds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.AnnualizedRate != 1.0 {
		t.Errorf("expected rate 1.0, got %.6f", r.AnnualizedRate)
	}
	if r.Category != model.ExtremeBullish {
		t.Errorf("expected %q, got %q", model.ExtremeBullish, r.Category)
	}
	if !r.EntryDate.Equal(series[0].Date) || !r.ExitDate.Equal(series[252].Date) {
		t.Errorf("window dates mismatch: %s → %s", r.EntryDate, r.ExitDate)
	}
	if r.EntryClose != 100 || r.ExitClose != 200 {
		t.Errorf("window closes mismatch: %.2f → %.2f", r.EntryClose, r.ExitClose)
	}
}

func TestClassify_WindowCount(t *testing.T) {
	for _, tc := range []struct{ n, h, want int }{
		{10, 3, 7},
		{10, 9, 1},
		{10, 10, 0},
		{3, 10, 0},
		{0, 1, 0},
	} {
		records, err := Classify(flatSeries(tc.n, 50), tc.h, defaultThresholds)
		if err != nil {
			t.Fatalf("n=%d h=%d: unexpected error: %v", tc.n, tc.h, err)
		}
		if len(records) != tc.want {
			t.Errorf("n=%d h=%d: expected %d records, got %d", tc.n, tc.h, tc.want, len(records))
		}
	}
}

func TestClassify_ExitIsHoldingPeriodPositionsLater(t *testing.T) {
	series := flatSeries(20, 10)
	// leave calendar gaps so positions and days differ
	for i := range series {
		series[i].Date = series[0].Date.AddDate(0, 0, i*3)
	}
	records, err := Classify(series, 5, defaultThresholds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, r := range records {
		if !r.ExitDate.Equal(series[i+5].Date) {
			t.Errorf("record %d: exit %s, expected %s", i, r.ExitDate, series[i+5].Date)
		}
	}
}

func TestClassify_NonPositiveCloseAborts(t *testing.T) {
	series := flatSeries(10, 100)
	series[3].Close = 0
	records, err := Classify(series, 2, defaultThresholds)
	if !errors.Is(err, model.ErrDomain) {
		t.Fatalf("expected ErrDomain, got %v", err)
	}
	if records != nil {
		t.Errorf("expected no partial output, got %d records", len(records))
	}
}

func TestClassify_InvalidHoldingPeriod(t *testing.T) {
	if _, err := Classify(flatSeries(10, 100), 0, defaultThresholds); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
