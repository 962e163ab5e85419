package roundservice

import (
	"context"
	"log/slog"

	rounddomain "github.com/Black-And-White-Club/golf-handicap/app/modules/round/domain"
	"github.com/Black-And-White-Club/golf-handicap/internal/results"
)

type indexResult = results.OperationResult[rounddomain.IndexSummary, RoundFailure]

// HandicapIndex returns the owner's index, from cache when fresh.
func (s *RoundService) HandicapIndex(ctx context.Context, ownerID string) (rounddomain.IndexSummary, error) {
	result, err := withTelemetry(s, ctx, "HandicapIndex", ownerID, func(ctx context.Context) (indexResult, error) {
		if summary, ok := s.cache.Get(ownerID); ok {
			s.metrics.RecordIndexCacheHit(ctx, true)
			return results.SuccessResult[rounddomain.IndexSummary, RoundFailure](summary), nil
		}
		s.metrics.RecordIndexCacheHit(ctx, false)

		summary, err := s.computeIndex(ctx, ownerID)
		if err != nil {
			return indexResult{}, err
		}
		return results.SuccessResult[rounddomain.IndexSummary, RoundFailure](summary), nil
	})
	if err != nil {
		return rounddomain.IndexSummary{}, err
	}
	return *result.Success, nil
}

// RecalculateIndex recomputes the owner's index from storage and caches it.
func (s *RoundService) RecalculateIndex(ctx context.Context, ownerID string) (rounddomain.IndexSummary, error) {
	result, err := withTelemetry(s, ctx, "RecalculateIndex", ownerID, func(ctx context.Context) (indexResult, error) {
		summary, err := s.computeIndex(ctx, ownerID)
		if err != nil {
			return indexResult{}, err
		}
		return results.SuccessResult[rounddomain.IndexSummary, RoundFailure](summary), nil
	})
	if err != nil {
		return rounddomain.IndexSummary{}, err
	}
	return *result.Success, nil
}

// InvalidateIndex drops the owner's cached index so the next read recomputes it.
func (s *RoundService) InvalidateIndex(_ context.Context, ownerID string) {
	s.cache.Invalidate(ownerID)
}

// computeIndex reads the owner's differentials and caches the result unless the
// round set changed while the read was in flight.
func (s *RoundService) computeIndex(ctx context.Context, ownerID string) (rounddomain.IndexSummary, error) {
	generation := s.cache.Generation(ownerID)
	diffs, err := s.repo.ListDifferentials(ctx, nil, ownerID)
	if err != nil {
		return rounddomain.IndexSummary{}, err
	}
	summary := rounddomain.Summarize(diffs)
	if !s.cache.Set(ownerID, summary, generation) {
		s.logger.DebugContext(ctx, "Discarded index computed before an invalidation",
			slog.String("owner_id", ownerID),
		)
	}
	return summary, nil
}
