// Package observability wires the logger, tracer and Prometheus metrics shared
// by the modules.
package observability

import (
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Black-And-White-Club/golf-handicap/config"
)

const serviceName = "golf-handicap"

// Observability bundles the telemetry handles passed to each module.
type Observability struct {
	Logger       *slog.Logger
	Tracer       trace.Tracer
	Registry     *prometheus.Registry
	RoundMetrics RoundMetrics
	ScanMetrics  ScanMetrics
}

// New builds a JSON logger writing to out and registers the service metrics on a
// fresh registry. Spans go to the global otel provider.
func New(cfg config.ObservabilityConfig, out io.Writer) Observability {
	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)})
	logger := slog.New(handler).With(
		slog.String("service", serviceName),
	)
	if cfg.Environment != "" {
		logger = logger.With(slog.String("env", cfg.Environment))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return Observability{
		Logger:       logger,
		Tracer:       otel.Tracer(serviceName),
		Registry:     registry,
		RoundMetrics: NewRoundMetrics(registry),
		ScanMetrics:  NewScanMetrics(registry),
	}
}

// NewNoop returns handles that discard everything, for tests.
func NewNoop() Observability {
	return Observability{
		Logger:       NoOpLogger,
		Tracer:       noop.NewTracerProvider().Tracer(serviceName),
		Registry:     prometheus.NewRegistry(),
		RoundMetrics: &NoOpRoundMetrics{},
		ScanMetrics:  &NoOpScanMetrics{},
	}
}

// NoOpLogger discards all records.
var NoOpLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// ParseLevel maps a configured level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
