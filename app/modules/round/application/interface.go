package roundservice

import (
	"context"

	rounddomain "github.com/Black-And-White-Club/golf-handicap/app/modules/round/domain"
)

// Service defines the round operations. Every method is scoped to one owner.
type Service interface {
	// RecordRound validates input, fixes the differential and stores the round.
	RecordRound(ctx context.Context, ownerID string, in rounddomain.RoundInput) (RoundOperationResult, error)

	// ListRounds returns the owner's rounds, most recently played first.
	ListRounds(ctx context.Context, ownerID string) ([]rounddomain.Round, error)

	// ClearRounds deletes every round of the owner.
	ClearRounds(ctx context.Context, ownerID string) (ClearOperationResult, error)

	// HandicapIndex returns the owner's index, from cache when fresh.
	HandicapIndex(ctx context.Context, ownerID string) (rounddomain.IndexSummary, error)

	// RecalculateIndex recomputes the owner's index from storage and caches it.
	RecalculateIndex(ctx context.Context, ownerID string) (rounddomain.IndexSummary, error)

	// InvalidateIndex drops the owner's cached index.
	InvalidateIndex(ctx context.Context, ownerID string)

	// LoadDemoRounds stores the five sample rounds.
	LoadDemoRounds(ctx context.Context, ownerID string) (ImportOperationResult, error)

	// ImportRounds stores the rounds listed in a CSV or XLSX history file.
	ImportRounds(ctx context.Context, ownerID, filename string, data []byte) (ImportOperationResult, error)

	// HandicapChart renders the index trend as a PNG.
	HandicapChart(ctx context.Context, ownerID string) ([]byte, error)
}
