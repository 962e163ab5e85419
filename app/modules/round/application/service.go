package roundservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/golf-handicap/app/modules/round/application/parsers"
	roundcache "github.com/Black-And-White-Club/golf-handicap/app/modules/round/infrastructure/cache"
	rounddb "github.com/Black-And-White-Club/golf-handicap/app/modules/round/infrastructure/repositories"
	roundtime "github.com/Black-And-White-Club/golf-handicap/app/modules/round/time_utils"
	roundutil "github.com/Black-And-White-Club/golf-handicap/app/modules/round/utils"
	"github.com/Black-And-White-Club/golf-handicap/internal/eventbus"
	"github.com/Black-And-White-Club/golf-handicap/internal/observability"
	"github.com/Black-And-White-Club/golf-handicap/internal/results"
)

// RoundService implements the Service interface.
type RoundService struct {
	repo       rounddb.Repository
	eventBus   eventbus.EventBus
	cache      roundcache.IndexCache
	parsers    parsers.ParserFactory
	dateParser *roundtime.DateParser
	clock      roundutil.Clock
	logger     *slog.Logger
	metrics    observability.RoundMetrics
	tracer     trace.Tracer
	db         *bun.DB
}

var _ Service = (*RoundService)(nil)

// NewRoundService creates a new RoundService. db may be nil, in which case
// repository calls run without a transaction.
func NewRoundService(
	repo rounddb.Repository,
	eventBus eventbus.EventBus,
	cache roundcache.IndexCache,
	parserFactory parsers.ParserFactory,
	clock roundutil.Clock,
	logger *slog.Logger,
	metrics observability.RoundMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *RoundService {
	return &RoundService{
		repo:       repo,
		eventBus:   eventBus,
		cache:      cache,
		parsers:    parserFactory,
		dateParser: roundtime.NewDateParser(),
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
		db:         db,
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *RoundService,
	ctx context.Context,
	operationName string,
	ownerID string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("owner_id", ownerID),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	correlationID := eventbus.CorrelationIDFromContext(ctx)
	s.logger.InfoContext(ctx, operationName+" triggered",
		slog.String("operation", operationName),
		slog.String("owner_id", ownerID),
		slog.String("correlation_id", correlationID),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("owner_id", ownerID),
				slog.String("correlation_id", correlationID),
				slog.Any("error", err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	if ownerID == "" {
		s.metrics.RecordOperationFailure(ctx, operationName)
		return result, fmt.Errorf("%s: %w", operationName, ErrMissingOwner)
	}

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			slog.String("operation", operationName),
			slog.String("owner_id", ownerID),
			slog.String("correlation_id", correlationID),
			slog.Any("error", wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			slog.String("operation", operationName),
			slog.String("owner_id", ownerID),
			slog.String("correlation_id", correlationID),
			slog.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, operationName+" completed successfully",
			slog.String("operation", operationName),
			slog.String("owner_id", ownerID),
			slog.String("correlation_id", correlationID),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *RoundService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}

// publish sends an event after a write has committed. Delivery failures are
// logged, not returned.
func (s *RoundService) publish(ctx context.Context, topic string, payload any) {
	if s.eventBus == nil {
		return
	}
	if err := eventbus.PublishEvent(ctx, s.eventBus, topic, payload); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish event",
			slog.String("topic", topic),
			slog.Any("error", err),
		)
	}
}
