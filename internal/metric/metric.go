// Package metric holds the run's prometheus collectors.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"protannot/internal/annotate"
)

const namespace = "protannot"

// Metrics groups every collector the pipeline updates.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	LookupsTotal   *prometheus.CounterVec
	LookupDuration prometheus.Histogram
	PredictionRows prometheus.Counter
	RowsTotal      *prometheus.CounterVec
	StageDuration  *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		LookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "lookup",
				Name:      "total",
				Help:      "Curated database lookups by outcome (found, not_found, timeout, error)",
			},
			[]string{"outcome"},
		),
		LookupDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "lookup",
				Name:      "duration_seconds",
				Help:      "Curated database lookup latency including retries",
				Buckets:   prometheus.DefBuckets,
			},
		),
		PredictionRows: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "predictor",
				Name:      "rows_total",
				Help:      "Rows read from the predictor table",
			},
		),
		RowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "output",
				Name:      "rows_total",
				Help:      "Output rows by resolving source (curated, predicted, unknown)",
			},
			[]string{"source"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "stage_duration_seconds",
				Help:      "Wall time per pipeline stage",
				Buckets:   []float64{.01, .1, 1, 10, 60, 600, 3600},
			},
			[]string{"stage"},
		),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.LookupsTotal, m.LookupDuration, m.PredictionRows, m.RowsTotal, m.StageDuration}
}

// ObserveLookup implements annotate.LookupObserver.
func (m *Metrics) ObserveLookup(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.LookupsTotal.WithLabelValues(outcome).Inc()
	m.LookupDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObservePredictionRows(n int) {
	if m == nil {
		return
	}
	m.PredictionRows.Add(float64(n))
}

func (m *Metrics) ObserveRows(rows []annotate.AnnotationRow) {
	if m == nil {
		return
	}
	for src, n := range annotate.CountBySource(rows) {
		m.RowsTotal.WithLabelValues(string(src)).Add(float64(n))
	}
}

func (m *Metrics) ObserveStage(stage string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}
