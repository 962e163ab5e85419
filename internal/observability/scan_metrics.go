package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ScanMetrics records scorecard scans.
type ScanMetrics interface {
	RecordScan(ctx context.Context, outcome string)
	RecordStageDuration(ctx context.Context, stage string, duration time.Duration)
	RecordFieldExtracted(ctx context.Context, field string)
}

type scanMetrics struct {
	scans  *prometheus.CounterVec
	stages *prometheus.HistogramVec
	fields *prometheus.CounterVec
}

// NewScanMetrics registers the scan collectors on reg.
func NewScanMetrics(reg prometheus.Registerer) ScanMetrics {
	m := &scanMetrics{
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "golf", Subsystem: "scorecard", Name: "scans_total",
			Help: "Scorecard scans by outcome.",
		}, []string{"outcome"}),
		stages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "golf", Subsystem: "scorecard", Name: "stage_duration_seconds",
			Help:    "Time spent per scan stage.",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		fields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "golf", Subsystem: "scorecard", Name: "fields_extracted_total",
			Help: "Fields found in recognized scorecard text.",
		}, []string{"field"}),
	}
	reg.MustRegister(m.scans, m.stages, m.fields)
	return m
}

func (m *scanMetrics) RecordScan(_ context.Context, outcome string) {
	m.scans.WithLabelValues(outcome).Inc()
}

func (m *scanMetrics) RecordStageDuration(_ context.Context, stage string, duration time.Duration) {
	m.stages.WithLabelValues(stage).Observe(duration.Seconds())
}

func (m *scanMetrics) RecordFieldExtracted(_ context.Context, field string) {
	m.fields.WithLabelValues(field).Inc()
}

// NoOpScanMetrics discards scan metrics.
type NoOpScanMetrics struct{}

func (*NoOpScanMetrics) RecordScan(context.Context, string)                         {}
func (*NoOpScanMetrics) RecordStageDuration(context.Context, string, time.Duration) {}
func (*NoOpScanMetrics) RecordFieldExtracted(context.Context, string)               {}
