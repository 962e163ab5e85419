package scorecardservice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/golf-handicap/app/modules/scorecard/application/extract"
	"github.com/Black-And-White-Club/golf-handicap/app/modules/scorecard/application/imaging"
	"github.com/Black-And-White-Club/golf-handicap/internal/eventbus"
	"github.com/Black-And-White-Club/golf-handicap/internal/observability"
	"github.com/Black-And-White-Club/golf-handicap/internal/results"
)

// Scan outcomes recorded in metrics.
const (
	outcomeSuccess     = "success"
	outcomeRejected    = "rejected"
	outcomeOCRFailed   = "ocr_failed"
	outcomeUnavailable = "unavailable"
)

// ScanService implements Service.
type ScanService struct {
	engines EnginePool
	logger  *slog.Logger
	metrics observability.ScanMetrics
	tracer  trace.Tracer
}

var _ Service = (*ScanService)(nil)

// NewScanService creates a ScanService.
func NewScanService(engines EnginePool, logger *slog.Logger, metrics observability.ScanMetrics, tracer trace.Tracer) *ScanService {
	return &ScanService{
		engines: engines,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
	}
}

// Scan decodes the image, binarizes it, runs it through a pooled OCR engine and
// extracts the round fields. An undecodable upload is a failure result; an
// engine error is returned wrapped in ErrOCRFailed.
func (s *ScanService) Scan(ctx context.Context, r io.Reader) (result ScanOperationResult, err error) {
	ctx, span := s.tracer.Start(ctx, "ScanScorecard")
	defer span.End()

	correlationID := eventbus.CorrelationIDFromContext(ctx)

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in ScanScorecard: %v", rec)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("correlation_id", correlationID),
				slog.Any("error", err),
			)
			span.RecordError(err)
			result = ScanOperationResult{}
		}
	}()

	start := time.Now()
	img, format, err := imaging.Decode(r)
	s.metrics.RecordStageDuration(ctx, "decode", time.Since(start))
	if err != nil {
		s.metrics.RecordScan(ctx, outcomeRejected)
		s.logger.WarnContext(ctx, "Rejected scorecard upload",
			slog.String("correlation_id", correlationID),
			slog.Any("error", err),
		)
		return results.FailureResult[ScanResult](ScanFailure{Reason: err.Error()}), nil
	}
	span.SetAttributes(
		attribute.String("image.format", format),
		attribute.Int("image.width", img.Bounds().Dx()),
		attribute.Int("image.height", img.Bounds().Dy()),
	)

	start = time.Now()
	binary := imaging.Binarize(img)
	s.metrics.RecordStageDuration(ctx, "preprocess", time.Since(start))

	engine, err := s.engines.Acquire(ctx)
	if err != nil {
		s.metrics.RecordScan(ctx, outcomeUnavailable)
		span.RecordError(err)
		return result, fmt.Errorf("failed to acquire ocr engine: %w", err)
	}
	defer s.engines.Release(engine)

	start = time.Now()
	text, err := engine.Recognize(ctx, binary)
	s.metrics.RecordStageDuration(ctx, "recognize", time.Since(start))
	if err != nil {
		s.metrics.RecordScan(ctx, outcomeOCRFailed)
		span.RecordError(err)
		s.logger.ErrorContext(ctx, "Text recognition failed",
			slog.String("correlation_id", correlationID),
			slog.Any("error", err),
		)
		return result, fmt.Errorf("%w: %w", ErrOCRFailed, err)
	}

	extraction := extract.Extract(text)
	found := extraction.Found()
	for _, field := range found {
		s.metrics.RecordFieldExtracted(ctx, field)
	}
	s.metrics.RecordScan(ctx, outcomeSuccess)

	s.logger.InfoContext(ctx, "Scorecard scanned",
		slog.String("correlation_id", correlationID),
		slog.String("format", format),
		slog.Any("fields", found),
		slog.Int("chars", len(text)),
	)

	return results.SuccessResult[ScanResult, ScanFailure](ScanResult{
		Extraction: extraction,
		Form:       extraction.WithDefaults(),
	}), nil
}
