package roundservice

import (
	"context"
	"log/slog"

	"github.com/uptrace/bun"

	roundevents "github.com/Black-And-White-Club/golf-handicap/app/modules/round/events"
)

// ClearRounds deletes every round of the owner.
func (s *RoundService) ClearRounds(ctx context.Context, ownerID string) (ClearOperationResult, error) {
	result, err := withTelemetry(s, ctx, "ClearRounds", ownerID, func(ctx context.Context) (ClearOperationResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (ClearOperationResult, error) {
			deleted, err := s.repo.DeleteRoundsForOwner(ctx, db, ownerID)
			if err != nil {
				return ClearOperationResult{}, err
			}
			return ClearOperationResult{Success: &ClearSummary{Deleted: deleted}}, nil
		})
	})
	if err != nil || !result.IsSuccess() {
		return result, err
	}

	s.cache.Invalidate(ownerID)
	s.logger.InfoContext(ctx, "Rounds cleared",
		slog.String("owner_id", ownerID),
		slog.Int("deleted", result.Success.Deleted),
	)
	s.publish(ctx, roundevents.RoundsClearedV1, roundevents.RoundsClearedPayloadV1{
		OwnerID: ownerID,
		Deleted: result.Success.Deleted,
	})
	return result, nil
}
