package roundhandlers

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	roundservice "github.com/Black-And-White-Club/golf-handicap/app/modules/round/application"
	roundutil "github.com/Black-And-White-Club/golf-handicap/app/modules/round/utils"
)

// DefaultMaxImportBytes caps history uploads when no limit is configured.
const DefaultMaxImportBytes = 10 << 20

// RoundHandlers implements Handlers and HTTPHandlers.
type RoundHandlers struct {
	service        roundservice.Service
	clock          roundutil.Clock
	logger         *slog.Logger
	tracer         trace.Tracer
	maxImportBytes int64
}

var (
	_ Handlers     = (*RoundHandlers)(nil)
	_ HTTPHandlers = (*RoundHandlers)(nil)
)

// NewRoundHandlers creates a new RoundHandlers.
func NewRoundHandlers(
	service roundservice.Service,
	clock roundutil.Clock,
	logger *slog.Logger,
	tracer trace.Tracer,
	maxImportBytes int64,
) *RoundHandlers {
	if maxImportBytes <= 0 {
		maxImportBytes = DefaultMaxImportBytes
	}
	return &RoundHandlers{
		service:        service,
		clock:          clock,
		logger:         logger,
		tracer:         tracer,
		maxImportBytes: maxImportBytes,
	}
}
