package roundservice

import (
	"context"

	rounddomain "github.com/Black-And-White-Club/golf-handicap/app/modules/round/domain"
	"github.com/Black-And-White-Club/golf-handicap/internal/results"
)

// ListRounds returns the owner's rounds, most recently played first.
func (s *RoundService) ListRounds(ctx context.Context, ownerID string) ([]rounddomain.Round, error) {
	result, err := withTelemetry(s, ctx, "ListRounds", ownerID, func(ctx context.Context) (results.OperationResult[[]rounddomain.Round, RoundFailure], error) {
		models, err := s.repo.ListRounds(ctx, nil, ownerID)
		if err != nil {
			return results.OperationResult[[]rounddomain.Round, RoundFailure]{}, err
		}

		rounds := make([]rounddomain.Round, 0, len(models))
		for _, m := range models {
			rounds = append(rounds, m.ToDomain())
		}
		return results.SuccessResult[[]rounddomain.Round, RoundFailure](rounds), nil
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}
