package backtest

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"CagrSentinel/internal/calculator"
	"CagrSentinel/internal/fund"
	"CagrSentinel/internal/metrics"
	"CagrSentinel/internal/model"
	"CagrSentinel/internal/strategy"
)

// Result is the full output bundle of one run.
type Result struct {
	RunID      string                   `json:"run_id"`
	Params     Params                   `json:"params"`
	Classified []model.ClassifiedRecord `json:"classified"`
	Ledger     []model.LedgerRow        `json:"ledger"`
	Summary    model.SummaryRow         `json:"summary"`
	Stats      model.RunStats           `json:"stats"`
}

// Engine runs the classify → simulate pipeline. It keeps no state between
// runs and may be shared by concurrent callers.
type Engine struct {
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewEngine creates an Engine. m may be nil.
func NewEngine(log zerolog.Logger, m *metrics.Metrics) *Engine {
	return &Engine{
		log:     log.With().Str("component", "backtest").Logger(),
		metrics: m,
	}
}

// Run classifies the series and replays the strategy over it.
// source labels the caller in logs and metrics ("cli", "http", "sweep").
func (e *Engine) Run(source string, series []model.PricePoint, p Params) (*Result, error) {
	start := time.Now()
	res, err := e.run(series, p)
	e.metrics.ObserveRun(source, time.Since(start), err)
	if err != nil {
		e.log.Warn().Err(err).Str("source", source).Int("points", len(series)).Msg("backtest failed")
		return nil, err
	}
	e.metrics.ObserveRegimes(res.Stats.CategoryCounts)

	e.log.Info().
		Str("run_id", res.RunID).
		Str("source", source).
		Int("points", len(series)).
		Int("windows", len(res.Classified)).
		Float64("net_profit", res.Summary.NetProfit).
		Float64("cagr", res.Summary.CAGROnCapital).
		Dur("duration", time.Since(start)).
		Msg("backtest complete")
	return res, nil
}

func (e *Engine) run(series []model.PricePoint, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateSeries(series); err != nil {
		return nil, err
	}
	if len(series) < p.HoldingPeriod+1 {
		return nil, fmt.Errorf("%w: need at least %d points for holding period %d, got %d",
			model.ErrInvalidInput, p.HoldingPeriod+1, p.HoldingPeriod, len(series))
	}

	classified, err := strategy.Classify(series, p.HoldingPeriod, p.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	sim := fund.NewSimulator(p.StartingCapital, p.Sizing)
	out, err := sim.Run(classified)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}

	return &Result{
		RunID:      uuid.NewString(),
		Params:     p,
		Classified: classified,
		Ledger:     out.Ledger,
		Summary:    out.Summary,
		Stats:      Stats(classified, out.Ledger),
	}, nil
}

// ValidateSeries rejects non-finite closes and dates that are not strictly
// ascending. Non-positive closes are left to the classifier.
func ValidateSeries(series []model.PricePoint) error {
	for i, pt := range series {
		if math.IsNaN(pt.Close) || math.IsInf(pt.Close, 0) {
			return fmt.Errorf("%w: non-finite close at %s", model.ErrInvalidInput, pt.Date.Format("2006-01-02"))
		}
		if i == 0 {
			continue
		}
		prev := series[i-1].Date
		switch {
		case pt.Date.Equal(prev):
			return fmt.Errorf("%w: duplicate date %s", model.ErrInvalidInput, pt.Date.Format("2006-01-02"))
		case pt.Date.Before(prev):
			return fmt.Errorf("%w: date %s follows %s", model.ErrInvalidInput,
				pt.Date.Format("2006-01-02"), prev.Format("2006-01-02"))
		}
	}
	return nil
}

// Stats derives the descriptive figures of a finished run.
func Stats(classified []model.ClassifiedRecord, ledger []model.LedgerRow) model.RunStats {
	st := model.RunStats{
		CategoryCounts: make(map[model.Category]int, len(model.Categories)),
		Rates:          calculator.RateStatistics(classified),
	}
	for _, c := range model.Categories {
		st.CategoryCounts[c] = 0
	}
	for _, r := range classified {
		st.CategoryCounts[r.Category]++
	}

	equity := make([]float64, len(ledger))
	for i, row := range ledger {
		equity[i] = row.RemainingCash + row.PortfolioValue
		if row.UnitsBought > 0 {
			st.BuyCount++
		}
		if row.UnitsSold > 0 {
			st.SellCount++
		}
	}
	st.MaxDrawdown = calculator.MaxDrawdown(equity)
	return st
}
