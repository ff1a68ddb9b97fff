package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CagrSentinel/internal/backtest"
	"CagrSentinel/internal/collector"
	"CagrSentinel/internal/recorder"
)

type memRecorder struct {
	runs []*recorder.RunRecord
}

func (m *memRecorder) RecordRun(rec *recorder.RunRecord) error {
	m.runs = append(m.runs, rec)
	return nil
}
func (m *memRecorder) RecentRuns(int) ([]recorder.RunInfo, error) { return nil, nil }
func (m *memRecorder) Close() error                               { return nil }

func priceCSV(n int) string {
	var b strings.Builder
	b.WriteString("Date,Close\n")
	d := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%s,%d\n", d.AddDate(0, 0, i).Format("2006-01-02"), 100+i)
	}
	return b.String()
}

func newTestScheduler(t *testing.T, rec recorder.Recorder) (*Scheduler, Dirs) {
	t.Helper()
	root := t.TempDir()
	dirs := Dirs{
		Inbox:     filepath.Join(root, "inbox"),
		Processed: filepath.Join(root, "processed"),
		Failed:    filepath.Join(root, "failed"),
		Output:    filepath.Join(root, "output"),
	}
	require.NoError(t, os.MkdirAll(dirs.Inbox, 0o755))

	p := backtest.DefaultParams()
	p.HoldingPeriod = 5
	p.StartingCapital = 10_000
	eng := backtest.NewEngine(zerolog.Nop(), nil)
	return NewScheduler(context.Background(), eng, rec, p, collector.DefaultOptions(), dirs, zerolog.Nop()), dirs
}

func TestSweepNow(t *testing.T) {
	rec := &memRecorder{}
	s, dirs := newTestScheduler(t, rec)

	require.NoError(t, os.WriteFile(filepath.Join(dirs.Inbox, "good.csv"), []byte(priceCSV(400)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dirs.Inbox, "short.csv"), []byte(priceCSV(3)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dirs.Inbox, "notes.txt"), []byte("ignore me"), 0o644))

	rep := s.SweepNow()
	assert.Equal(t, []string{"good.csv"}, rep.Processed)
	assert.Equal(t, []string{"short.csv"}, rep.Failed)

	assert.FileExists(t, filepath.Join(dirs.Output, "good_result.xlsx"))
	assert.FileExists(t, filepath.Join(dirs.Processed, "good.csv"))
	assert.FileExists(t, filepath.Join(dirs.Failed, "short.csv"))
	assert.FileExists(t, filepath.Join(dirs.Inbox, "notes.txt"))
	assert.NoFileExists(t, filepath.Join(dirs.Inbox, "good.csv"))

	require.Len(t, rec.runs, 1)
	assert.Equal(t, "sweep", rec.runs[0].Origin)
	assert.Equal(t, "good.csv", rec.runs[0].Source)
	assert.Len(t, rec.runs[0].Result.Classified, 395)

	rep = s.SweepNow()
	assert.Empty(t, rep.Processed)
	assert.Empty(t, rep.Failed)
}

func TestSweepNow_MissingInbox(t *testing.T) {
	s, dirs := newTestScheduler(t, recorder.NewNoopRecorder())
	require.NoError(t, os.RemoveAll(dirs.Inbox))
	rep := s.SweepNow()
	assert.Empty(t, rep.Processed)
}

func TestSweepNow_KeepsEarlierProcessedCopy(t *testing.T) {
	s, dirs := newTestScheduler(t, recorder.NewNoopRecorder())
	require.NoError(t, os.MkdirAll(dirs.Processed, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dirs.Processed, "good.csv"), []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dirs.Inbox, "good.csv"), []byte(priceCSV(400)), 0o644))

	s.SweepNow()

	old, err := os.ReadFile(filepath.Join(dirs.Processed, "good.csv"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))
	matches, err := filepath.Glob(filepath.Join(dirs.Processed, "good_*.csv"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestSweepNow_KeepsEarlierResultWorkbook(t *testing.T) {
	s, dirs := newTestScheduler(t, recorder.NewNoopRecorder())

	require.NoError(t, os.WriteFile(filepath.Join(dirs.Inbox, "good.csv"), []byte(priceCSV(400)), 0o644))
	require.Equal(t, []string{"good.csv"}, s.SweepNow().Processed)
	first := filepath.Join(dirs.Output, "good_result.xlsx")
	before, err := os.Stat(first)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dirs.Inbox, "good.csv"), []byte(priceCSV(400)), 0o644))
	require.Equal(t, []string{"good.csv"}, s.SweepNow().Processed)

	after, err := os.Stat(first)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
	matches, err := filepath.Glob(filepath.Join(dirs.Output, "good_result*.xlsx"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestFreePath(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a_result.xlsx")
	assert.Equal(t, p, freePath(p))

	require.NoError(t, os.WriteFile(p, nil, 0o644))
	second := freePath(p)
	assert.NotEqual(t, p, second)
	assert.True(t, strings.HasPrefix(filepath.Base(second), "a_result_"))

	require.NoError(t, os.WriteFile(second, nil, 0o644))
	third := freePath(p)
	assert.NotEqual(t, second, third)
	assert.Equal(t, ".xlsx", filepath.Ext(third))
}

func TestRegisterAll(t *testing.T) {
	s, _ := newTestScheduler(t, recorder.NewNoopRecorder())
	assert.NoError(t, s.RegisterAll("0 */5 * * * *"))
	assert.Error(t, s.RegisterAll("not a cron"))
}
