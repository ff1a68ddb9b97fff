package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"CagrSentinel/internal/backtest"
	"CagrSentinel/internal/scheduler"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Periodically backtest files dropped into the inbox folder",
	Long: `Sweep the inbox on the configured cron schedule. Each supported file is
backtested with the configured parameters, its result workbook is written to
the output folder and the input is moved to the processed or failed folder.`,
	RunE: runWatch,
}

var (
	watchOnce    bool
	watchOnStart bool
)

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "Sweep the inbox once and exit")
	watchCmd.Flags().BoolVar(&watchOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "Sweep immediately before waiting for the schedule")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, backtest.NewEngine(a.log, a.metrics), a.recorder, a.cfg.Backtest,
		a.ingestOptions(), scheduler.Dirs{
			Inbox:     a.cfg.Schedule.InboxDir,
			Processed: a.cfg.Schedule.ProcessedDir,
			Failed:    a.cfg.Schedule.FailedDir,
			Output:    a.cfg.OutputDir,
		}, a.log)

	if watchOnce {
		rep := sched.SweepNow()
		a.log.Info().Strs("processed", rep.Processed).Strs("failed", rep.Failed).Msg("sweep finished")
		return nil
	}

	if err := sched.RegisterAll(a.cfg.Schedule.SweepCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if watchOnStart {
		go sched.SweepNow()
	}

	a.log.Info().Str("cron", a.cfg.Schedule.SweepCron).Msg("watching inbox. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	a.log.Info().Msg("shutdown signal received, stopping...")
	cancel()
	return nil
}
