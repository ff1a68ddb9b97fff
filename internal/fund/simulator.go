package fund

import (
	"fmt"
	"math"

	"CagrSentinel/internal/calculator"
	"CagrSentinel/internal/model"
)

// Simulator replays an accumulation/distribution strategy over a classified
// series. A Simulator holds only configuration; every replay starts from a
// fresh state, so one Simulator may serve concurrent runs.
type Simulator struct {
	StartingCapital float64
	Sizing          model.UnitSizing
}

// Result is the ledger of one replay and the summary derived from it.
type Result struct {
	Ledger  []model.LedgerRow
	Summary model.SummaryRow
}

// NewSimulator creates a Simulator.
func NewSimulator(startingCapital float64, sizing model.UnitSizing) *Simulator {
	return &Simulator{StartingCapital: startingCapital, Sizing: sizing}
}

func (s *Simulator) validate() error {
	if math.IsNaN(s.StartingCapital) || math.IsInf(s.StartingCapital, 0) || s.StartingCapital < 0 {
		return fmt.Errorf("%w: starting capital must be a non-negative number, got %g", model.ErrInvalidInput, s.StartingCapital)
	}
	return s.Sizing.Validate()
}

// Replay walks the records once, in order, and emits one ledger row per record.
func (s *Simulator) Replay(records []model.ClassifiedRecord) ([]model.LedgerRow, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, model.ErrEmptyInput
	}

	st := newState(s.StartingCapital)
	ledger := make([]model.LedgerRow, 0, len(records))
	for _, rec := range records {
		ledger = append(ledger, step(st, rec, s.Sizing))
	}
	return ledger, nil
}

// Run replays the records and derives the summary from the final row.
// No result is returned when either stage fails.
func (s *Simulator) Run(records []model.ClassifiedRecord) (*Result, error) {
	ledger, err := s.Replay(records)
	if err != nil {
		return nil, err
	}
	summary, err := Summarize(ledger, s.StartingCapital)
	if err != nil {
		return nil, err
	}
	return &Result{Ledger: ledger, Summary: summary}, nil
}

// Summarize derives the performance summary from the last ledger row and the
// span between the earliest and latest ledger dates.
//
// The final value adds cumulative withdrawals on top of remaining cash, which
// already includes them; NetProfit and CAGROnCapital are reported on that basis.
func Summarize(ledger []model.LedgerRow, startingCapital float64) (model.SummaryRow, error) {
	if len(ledger) == 0 {
		return model.SummaryRow{}, model.ErrEmptyInput
	}

	last := ledger[len(ledger)-1]
	finalValue := last.PortfolioValue + last.RemainingCash + last.TotalWithdrawn

	first, latest := ledger[0].Date, ledger[0].Date
	for _, row := range ledger[1:] {
		if row.Date.Before(first) {
			first = row.Date
		}
		if row.Date.After(latest) {
			latest = row.Date
		}
	}

	cagr, err := calculator.CAGROnCapital(finalValue, startingCapital, calculator.SpanYears(first, latest))
	if err != nil {
		return model.SummaryRow{}, fmt.Errorf("summarize %s → %s: %w",
			first.Format("2006-01-02"), latest.Format("2006-01-02"), err)
	}

	return model.SummaryRow{
		FinalPortfolioValue: last.PortfolioValue,
		RemainingCash:       last.RemainingCash,
		TotalInvested:       last.TotalInvested,
		TotalWithdrawn:      last.TotalWithdrawn,
		NetProfit:           finalValue - startingCapital,
		CAGROnCapital:       cagr,
	}, nil
}
