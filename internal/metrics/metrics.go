package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"CagrSentinel/internal/model"
)

// Metrics holds the Prometheus collectors for backtest runs.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal         *prometheus.CounterVec
	RunDuration       *prometheus.HistogramVec
	RecordsClassified prometheus.Counter
	RegimeWindows     *prometheus.CounterVec
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cagrsentinel_runs_total",
				Help: "Backtest runs by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cagrsentinel_run_duration_seconds",
				Help:    "Wall time of a classify + simulate run",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"source"},
		),
		RecordsClassified: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cagrsentinel_classified_records_total",
				Help: "Rolling windows classified across all successful runs",
			},
		),
		RegimeWindows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cagrsentinel_regime_windows_total",
				Help: "Classified windows by regime",
			},
			[]string{"category"},
		),
	}
	m.registry.MustRegister(m.RunsTotal, m.RunDuration, m.RecordsClassified, m.RegimeWindows)
	return m
}

// Outcome maps a run error onto a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, model.ErrDomain):
		return "domain"
	case errors.Is(err, model.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, model.ErrDegenerateSpan):
		return "degenerate_span"
	default:
		return "error"
	}
}

// ObserveRun records one finished run.
func (m *Metrics) ObserveRun(source string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(source, Outcome(err)).Inc()
	m.RunDuration.WithLabelValues(source).Observe(d.Seconds())
}

// ObserveRegimes counts the windows of a successful run per category.
func (m *Metrics) ObserveRegimes(counts map[model.Category]int) {
	if m == nil {
		return
	}
	total := 0
	for cat, n := range counts {
		m.RegimeWindows.WithLabelValues(string(cat)).Add(float64(n))
		total += n
	}
	m.RecordsClassified.Add(float64(total))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
