package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"CagrSentinel/internal/collector"
	"CagrSentinel/internal/config"
	"CagrSentinel/internal/metrics"
	"CagrSentinel/internal/recorder"
	"CagrSentinel/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "cagrsentinel",
	Short: "Rolling CAGR regime classifier and accumulation backtester",
	Long: `CagrSentinel labels every rolling holding window of a close-price series
by its annualized growth rate, then replays an accumulate-on-weakness,
distribute-on-strength strategy over those labels.

Examples:
  cagrsentinel run --input nifty.xlsx
  cagrsentinel run --input spx.csv --holding-period 120 --capital 100000
  cagrsentinel serve
  cagrsentinel watch --once`,
	SilenceUsage: true,
}

func init() {
	def := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		def = v
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", def, "Path to the YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles what every subcommand needs.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	metrics  *metrics.Metrics
	recorder recorder.Recorder
}

func setup() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(log)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, metrics: metrics.New()}
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			a.recorder = recorder.NewNoopRecorder()
		} else {
			a.recorder = sr
		}
	} else {
		a.recorder = recorder.NewNoopRecorder()
	}
	return a, nil
}

func (a *app) ingestOptions() collector.Options {
	return collector.Options{
		Sheet:       a.cfg.Ingest.Sheet,
		SkipRows:    a.cfg.Ingest.SkipRows,
		DateColumn:  a.cfg.Ingest.DateColumn,
		CloseColumn: a.cfg.Ingest.CloseColumn,
	}
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		a.log.Error().Err(err).Msg("close recorder")
	}
}
