package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RoundMetrics records round service operations.
type RoundMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordRoundsStored(ctx context.Context, count int)
	RecordIndexCacheHit(ctx context.Context, hit bool)
}

type roundMetrics struct {
	attempts   *prometheus.CounterVec
	successes  *prometheus.CounterVec
	failures   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	stored     prometheus.Counter
	cacheLooks *prometheus.CounterVec
}

// NewRoundMetrics registers the round collectors on reg.
func NewRoundMetrics(reg prometheus.Registerer) RoundMetrics {
	m := &roundMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "golf", Subsystem: "round", Name: "operation_attempts_total",
			Help: "Round service operations attempted.",
		}, []string{"operation"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "golf", Subsystem: "round", Name: "operation_success_total",
			Help: "Round service operations that succeeded.",
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "golf", Subsystem: "round", Name: "operation_failure_total",
			Help: "Round service operations that failed.",
		}, []string{"operation"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "golf", Subsystem: "round", Name: "operation_duration_seconds",
			Help:    "Round service operation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		stored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "golf", Subsystem: "round", Name: "rounds_stored_total",
			Help: "Rounds written to storage.",
		}),
		cacheLooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "golf", Subsystem: "round", Name: "index_cache_lookups_total",
			Help: "Handicap index cache lookups by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.attempts, m.successes, m.failures, m.duration, m.stored, m.cacheLooks)
	return m
}

func (m *roundMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.attempts.WithLabelValues(operation).Inc()
}

func (m *roundMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.successes.WithLabelValues(operation).Inc()
}

func (m *roundMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.failures.WithLabelValues(operation).Inc()
}

func (m *roundMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *roundMetrics) RecordRoundsStored(_ context.Context, count int) {
	m.stored.Add(float64(count))
}

func (m *roundMetrics) RecordIndexCacheHit(_ context.Context, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLooks.WithLabelValues(result).Inc()
}

// NoOpRoundMetrics discards round metrics.
type NoOpRoundMetrics struct{}

func (*NoOpRoundMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (*NoOpRoundMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (*NoOpRoundMetrics) RecordOperationFailure(context.Context, string)                 {}
func (*NoOpRoundMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (*NoOpRoundMetrics) RecordRoundsStored(context.Context, int)                        {}
func (*NoOpRoundMetrics) RecordIndexCacheHit(context.Context, bool)                      {}
