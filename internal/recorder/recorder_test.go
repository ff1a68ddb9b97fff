package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CagrSentinel/internal/backtest"
	"CagrSentinel/internal/model"
)

func sampleRun(id string) *RunRecord {
	d := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	return &RunRecord{
		Source: "nifty.xlsx",
		Origin: "cli",
		Result: &backtest.Result{
			RunID:  id,
			Params: backtest.DefaultParams(),
			Classified: []model.ClassifiedRecord{
				{EntryDate: d, EntryClose: 100, ExitDate: d.AddDate(1, 0, 0), ExitClose: 90, AnnualizedRate: -0.1, Category: model.ExtremeBearish},
			},
			Ledger: []model.LedgerRow{
				{Date: d, Category: model.ExtremeBearish, ClosePrice: 100, UnitsBought: 2, TotalUnitsHeld: 2,
					PortfolioValue: 200, TotalInvested: 200, RemainingCash: 2_499_800},
			},
			Summary: model.SummaryRow{FinalPortfolioValue: 2_500_000, RemainingCash: 2_499_800, TotalInvested: 200, NetProfit: 0},
			Stats:   model.RunStats{BuyCount: 1},
		},
	}
}

func TestSQLiteRecorder_RecordAndList(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"), zerolog.Nop())
	require.NoError(t, err)
	defer rec.Close()

	require.NoError(t, rec.RecordRun(sampleRun("run-a")))
	require.NoError(t, rec.RecordRun(sampleRun("run-b")))

	runs, err := rec.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-b", runs[0].RunID)
	assert.Equal(t, "nifty.xlsx", runs[0].Source)
	assert.Equal(t, "cli", runs[0].Origin)
	assert.Equal(t, 250, runs[0].HoldingPeriod)
	assert.Equal(t, 1, runs[0].Windows)

	var n int
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM ledger_rows WHERE run_id = ?`, "run-a").Scan(&n))
	assert.Equal(t, 1, n)

	runs, err = rec.RecentRuns(1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSQLiteRecorder_DuplicateRunRollsBack(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"), zerolog.Nop())
	require.NoError(t, err)
	defer rec.Close()

	require.NoError(t, rec.RecordRun(sampleRun("same")))
	assert.Error(t, rec.RecordRun(sampleRun("same")))

	var n int
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM ledger_rows`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NewNoopRecorder()
	assert.NoError(t, rec.RecordRun(sampleRun("x")))
	runs, err := rec.RecentRuns(5)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, rec.Close())
}
