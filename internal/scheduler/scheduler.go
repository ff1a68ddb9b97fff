package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"CagrSentinel/internal/backtest"
	"CagrSentinel/internal/collector"
	"CagrSentinel/internal/recorder"
	"CagrSentinel/internal/report"
)

// Dirs are the folders a sweep reads from and writes to.
type Dirs struct {
	Inbox     string
	Processed string
	Failed    string
	Output    string
}

// SweepReport lists what one sweep did with each input file.
type SweepReport struct {
	Processed []string
	Failed    []string
}

// Scheduler periodically sweeps an inbox folder and backtests every
// supported file it finds there.
type Scheduler struct {
	Cron     *cron.Cron
	Engine   *backtest.Engine
	Recorder recorder.Recorder
	Params   backtest.Params
	Ingest   collector.Options
	Dirs     Dirs
	Ctx      context.Context

	log zerolog.Logger
	mu  sync.Mutex // one sweep at a time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, eng *backtest.Engine, rec recorder.Recorder, p backtest.Params,
	opts collector.Options, dirs Dirs, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Engine:   eng,
		Recorder: rec,
		Params:   p,
		Ingest:   opts,
		Dirs:     dirs,
		Ctx:      ctx,
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterAll registers the inbox sweep.
func (s *Scheduler) RegisterAll(sweepCron string) error {
	if _, err := s.Cron.AddFunc(sweepCron, func() { s.SweepNow() }); err != nil {
		return fmt.Errorf("register sweep task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Str("inbox", s.Dirs.Inbox).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// SweepNow processes every supported file currently in the inbox.
func (s *Scheduler) SweepNow() SweepReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rep SweepReport
	files, err := s.pending()
	if err != nil {
		s.log.Error().Err(err).Msg("list inbox")
		return rep
	}
	if len(files) == 0 {
		s.log.Debug().Msg("inbox empty")
		return rep
	}

	s.log.Info().Int("files", len(files)).Msg("running sweep")
	for _, path := range files {
		if s.Ctx.Err() != nil {
			s.log.Warn().Msg("sweep cancelled")
			break
		}
		name := filepath.Base(path)
		if err := s.process(path); err != nil {
			s.log.Error().Err(err).Str("file", name).Msg("sweep file failed")
			rep.Failed = append(rep.Failed, name)
			s.move(path, s.Dirs.Failed)
			continue
		}
		rep.Processed = append(rep.Processed, name)
		s.move(path, s.Dirs.Processed)
	}
	return rep
}

func (s *Scheduler) pending() ([]string, error) {
	entries, err := os.ReadDir(s.Dirs.Inbox)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		if collector.Supported(e.Name()) {
			files = append(files, filepath.Join(s.Dirs.Inbox, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func (s *Scheduler) process(path string) error {
	src := collector.NewFileSource(path, s.Ingest, s.log)
	series, err := src.Load()
	if err != nil {
		return err
	}

	res, err := s.Engine.Run("sweep", series.Points, s.Params)
	if err != nil {
		return err
	}

	out := freePath(filepath.Join(s.Dirs.Output, report.ResultName(src.Name())))
	if err := report.SaveWorkbook(out, res); err != nil {
		return fmt.Errorf("save result: %w", err)
	}

	if err := s.Recorder.RecordRun(&recorder.RunRecord{Result: res, Source: src.Name(), Origin: "sweep"}); err != nil {
		s.log.Error().Err(err).Str("run_id", res.RunID).Msg("record run")
	}
	s.log.Info().Str("file", src.Name()).Str("output", out).Str("run_id", res.RunID).Msg("sweep file done")
	return nil
}

func (s *Scheduler) move(path, dir string) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.log.Error().Err(err).Str("dir", dir).Msg("create directory")
		return
	}
	dst := freePath(filepath.Join(dir, filepath.Base(path)))
	if err := os.Rename(path, dst); err != nil {
		s.log.Error().Err(err).Str("file", path).Str("dst", dst).Msg("move file")
	}
}

// freePath returns path, or path with a timestamp suffix (and a counter if
// needed) when a file of that name already exists.
func freePath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}
	ext := filepath.Ext(path)
	stem := fmt.Sprintf("%s_%s", strings.TrimSuffix(path, ext), time.Now().Format("20060102150405"))
	candidate := stem + ext
	for i := 2; ; i++ {
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
}
