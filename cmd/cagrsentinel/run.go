package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"CagrSentinel/internal/backtest"
	"CagrSentinel/internal/collector"
	"CagrSentinel/internal/recorder"
	"CagrSentinel/internal/report"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Backtest one workbook or CSV file",
	Long: `Read a close-price series, classify every rolling window, replay the
strategy and write the three-sheet result workbook.

Flags override the config file; anything not given keeps its configured value.`,
	RunE: runBacktest,
}

var (
	runInput    string
	runOutput   string
	runJSON     bool
	runSheet    string
	runSkipRows int
	runParams   = backtest.DefaultParams()
)

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.StringVarP(&runInput, "input", "i", "", "Workbook (.xlsx) or CSV file with Date and Close columns")
	f.StringVarP(&runOutput, "output", "o", "", "Result workbook path (default: <output_dir>/<input>_result.xlsx)")
	f.BoolVar(&runJSON, "json", false, "Print the summary as JSON instead of text")
	f.StringVar(&runSheet, "sheet", "", "Sheet to read from a workbook")
	f.IntVar(&runSkipRows, "skip-rows", 0, "Rows above the header row in a workbook")

	f.IntVar(&runParams.HoldingPeriod, "holding-period", runParams.HoldingPeriod, "Holding period in rows")
	f.Float64Var(&runParams.StartingCapital, "capital", runParams.StartingCapital, "Starting capital")
	f.Float64Var(&runParams.Thresholds.ExtremeBearish, "cutoff-extreme-bearish", runParams.Thresholds.ExtremeBearish, "Upper bound of Extreme Bearish")
	f.Float64Var(&runParams.Thresholds.Bearish, "cutoff-bearish", runParams.Thresholds.Bearish, "Upper bound of Bearish")
	f.Float64Var(&runParams.Thresholds.SidewaysBearish, "cutoff-sideways-bearish", runParams.Thresholds.SidewaysBearish, "Upper bound of Sideways Bearish")
	f.Float64Var(&runParams.Thresholds.Neutral, "cutoff-neutral", runParams.Thresholds.Neutral, "Upper bound of Neutral")
	f.Float64Var(&runParams.Thresholds.Bullish, "cutoff-bullish", runParams.Thresholds.Bullish, "Upper bound of Bullish")
	f.Float64Var(&runParams.Sizing.ExtremeBearish, "units-extreme-bearish", runParams.Sizing.ExtremeBearish, "Units bought on Extreme Bearish")
	f.Float64Var(&runParams.Sizing.Bearish, "units-bearish", runParams.Sizing.Bearish, "Units bought on Bearish")
	f.Float64Var(&runParams.Sizing.SidewaysBearish, "units-sideways-bearish", runParams.Sizing.SidewaysBearish, "Units bought on Sideways Bearish")
	f.Float64Var(&runParams.Sizing.Bullish, "exit-units-bullish", runParams.Sizing.Bullish, "Units sold on Bullish")
	f.Float64Var(&runParams.Sizing.ExtremeBullish, "exit-units-extreme-bullish", runParams.Sizing.ExtremeBullish, "Units sold on Extreme Bullish")

	_ = runCmd.MarkFlagRequired("input")
}

// mergeParams starts from the configured parameters and applies only the
// flags the user set explicitly.
func mergeParams(cmd *cobra.Command, base backtest.Params) backtest.Params {
	p := base
	f := cmd.Flags()
	set := func(name string, dst *float64, v float64) {
		if f.Changed(name) {
			*dst = v
		}
	}
	if f.Changed("holding-period") {
		p.HoldingPeriod = runParams.HoldingPeriod
	}
	set("capital", &p.StartingCapital, runParams.StartingCapital)
	set("cutoff-extreme-bearish", &p.Thresholds.ExtremeBearish, runParams.Thresholds.ExtremeBearish)
	set("cutoff-bearish", &p.Thresholds.Bearish, runParams.Thresholds.Bearish)
	set("cutoff-sideways-bearish", &p.Thresholds.SidewaysBearish, runParams.Thresholds.SidewaysBearish)
	set("cutoff-neutral", &p.Thresholds.Neutral, runParams.Thresholds.Neutral)
	set("cutoff-bullish", &p.Thresholds.Bullish, runParams.Thresholds.Bullish)
	set("units-extreme-bearish", &p.Sizing.ExtremeBearish, runParams.Sizing.ExtremeBearish)
	set("units-bearish", &p.Sizing.Bearish, runParams.Sizing.Bearish)
	set("units-sideways-bearish", &p.Sizing.SidewaysBearish, runParams.Sizing.SidewaysBearish)
	set("exit-units-bullish", &p.Sizing.Bullish, runParams.Sizing.Bullish)
	set("exit-units-extreme-bullish", &p.Sizing.ExtremeBullish, runParams.Sizing.ExtremeBullish)
	return p
}

func runBacktest(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	opts := a.ingestOptions()
	if cmd.Flags().Changed("sheet") {
		opts.Sheet = runSheet
	}
	if cmd.Flags().Changed("skip-rows") {
		opts.SkipRows = runSkipRows
	}
	p := mergeParams(cmd, a.cfg.Backtest)

	src := collector.NewFileSource(runInput, opts, a.log)
	series, err := src.Load()
	if err != nil {
		return err
	}

	eng := backtest.NewEngine(a.log, a.metrics)
	res, err := eng.Run("cli", series.Points, p)
	if err != nil {
		return err
	}

	out := runOutput
	if out == "" {
		out = filepath.Join(a.cfg.OutputDir, report.ResultName(runInput))
	}
	if err := report.SaveWorkbook(out, res); err != nil {
		return err
	}
	if err := a.recorder.RecordRun(&recorder.RunRecord{Result: res, Source: src.Name(), Origin: "cli"}); err != nil {
		a.log.Error().Err(err).Str("run_id", res.RunID).Msg("record run")
	}

	w := cmd.OutOrStdout()
	if runJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"run_id":  res.RunID,
			"output":  out,
			"summary": res.Summary,
			"stats":   res.Stats,
		})
	}
	fmt.Fprint(w, report.FormatSummary(res))
	fmt.Fprintf(w, "\nResult workbook: %s\n", out)
	return nil
}
