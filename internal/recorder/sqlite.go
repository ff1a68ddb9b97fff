package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run results to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id                 TEXT PRIMARY KEY,
			timestamp              INTEGER NOT NULL,
			source                 TEXT,
			origin                 TEXT,
			holding_period         INTEGER,
			starting_capital       REAL,
			cut_extreme_bearish    REAL,
			cut_bearish            REAL,
			cut_sideways_bearish   REAL,
			cut_neutral            REAL,
			cut_bullish            REAL,
			units_extreme_bearish  REAL,
			units_bearish          REAL,
			units_sideways_bearish REAL,
			units_bullish          REAL,
			units_extreme_bullish  REAL,
			windows                INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS run_summaries (
			run_id                TEXT PRIMARY KEY REFERENCES runs(run_id),
			final_portfolio_value REAL,
			remaining_cash        REAL,
			total_invested        REAL,
			total_withdrawn       REAL,
			net_profit            REAL,
			cagr_on_capital       REAL,
			max_drawdown          REAL,
			buy_count             INTEGER,
			sell_count            INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS ledger_rows (
			run_id           TEXT NOT NULL REFERENCES runs(run_id),
			seq              INTEGER NOT NULL,
			date             TEXT NOT NULL,
			category         TEXT,
			close_price      REAL,
			annualized_rate  REAL,
			units_bought     REAL,
			units_sold       REAL,
			total_units_held REAL,
			portfolio_value  REAL,
			total_invested   REAL,
			total_withdrawn  REAL,
			remaining_cash   REAL,
			PRIMARY KEY (run_id, seq)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the run, its summary and its ledger in one transaction.
func (r *SQLiteRecorder) RecordRun(rec *RunRecord) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := rec.Result
	p := res.Params
	sum := res.Summary

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`INSERT INTO runs
		(run_id, timestamp, source, origin, holding_period, starting_capital,
		 cut_extreme_bearish, cut_bearish, cut_sideways_bearish, cut_neutral, cut_bullish,
		 units_extreme_bearish, units_bearish, units_sideways_bearish, units_bullish, units_extreme_bullish,
		 windows)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		res.RunID, time.Now().Unix(), rec.Source, rec.Origin, p.HoldingPeriod, p.StartingCapital,
		p.Thresholds.ExtremeBearish, p.Thresholds.Bearish, p.Thresholds.SidewaysBearish,
		p.Thresholds.Neutral, p.Thresholds.Bullish,
		p.Sizing.ExtremeBearish, p.Sizing.Bearish, p.Sizing.SidewaysBearish,
		p.Sizing.Bullish, p.Sizing.ExtremeBullish,
		len(res.Classified),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if _, err = tx.Exec(`INSERT INTO run_summaries
		(run_id, final_portfolio_value, remaining_cash, total_invested, total_withdrawn,
		 net_profit, cagr_on_capital, max_drawdown, buy_count, sell_count)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		res.RunID, sum.FinalPortfolioValue, sum.RemainingCash, sum.TotalInvested, sum.TotalWithdrawn,
		sum.NetProfit, sum.CAGROnCapital, res.Stats.MaxDrawdown, res.Stats.BuyCount, res.Stats.SellCount,
	); err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO ledger_rows
		(run_id, seq, date, category, close_price, annualized_rate, units_bought, units_sold,
		 total_units_held, portfolio_value, total_invested, total_withdrawn, remaining_cash)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare ledger insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range res.Ledger {
		var rate float64
		if i < len(res.Classified) {
			rate = res.Classified[i].AnnualizedRate
		}
		if _, err = stmt.Exec(
			res.RunID, i, row.Date.Format("2006-01-02"), string(row.Category), row.ClosePrice, rate,
			row.UnitsBought, row.UnitsSold, row.TotalUnitsHeld, row.PortfolioValue,
			row.TotalInvested, row.TotalWithdrawn, row.RemainingCash,
		); err != nil {
			return fmt.Errorf("insert ledger row %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.log.Debug().Str("run_id", res.RunID).Int("rows", len(res.Ledger)).Msg("run recorded")
	return nil
}

// RecentRuns returns the latest runs, newest first.
func (r *SQLiteRecorder) RecentRuns(limit int) ([]RunInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT r.run_id, r.timestamp, r.source, r.origin, r.holding_period,
		r.starting_capital, r.windows, s.net_profit, s.cagr_on_capital
		FROM runs r JOIN run_summaries s ON s.run_id = r.run_id
		ORDER BY r.timestamp DESC, r.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunInfo{}
	for rows.Next() {
		var info RunInfo
		var ts int64
		if err := rows.Scan(&info.RunID, &ts, &info.Source, &info.Origin, &info.HoldingPeriod,
			&info.StartingCapital, &info.Windows, &info.NetProfit, &info.CAGROnCapital); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		info.RecordedAt = time.Unix(ts, 0).UTC()
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
