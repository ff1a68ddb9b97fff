package recorder

import (
	"time"

	"CagrSentinel/internal/backtest"
)

// RunRecord holds one finished run and where it came from.
type RunRecord struct {
	Result *backtest.Result
	Source string // input file name
	Origin string // "cli", "http" or "sweep"
}

// RunInfo is the archived headline of a past run.
type RunInfo struct {
	RunID           string    `json:"run_id"`
	RecordedAt      time.Time `json:"recorded_at"`
	Source          string    `json:"source"`
	Origin          string    `json:"origin"`
	HoldingPeriod   int       `json:"holding_period"`
	StartingCapital float64   `json:"starting_capital"`
	Windows         int       `json:"windows"`
	NetProfit       float64   `json:"net_profit"`
	CAGROnCapital   float64   `json:"cagr_on_capital"`
}

// Recorder archives run results for later analysis. Archived runs are
// never fed back into a simulation.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	RecentRuns(limit int) ([]RunInfo, error)
	Close() error
}
