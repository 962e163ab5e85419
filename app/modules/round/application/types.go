package roundservice

import (
	rounddomain "github.com/Black-And-White-Club/golf-handicap/app/modules/round/domain"
	"github.com/Black-And-White-Club/golf-handicap/internal/results"
)

// RoundFailure explains why a request was rejected. It is returned as a
// failure result, not an error, since the caller can fix the input.
type RoundFailure struct {
	Reason string   `json:"reason"`
	Errors []string `json:"errors,omitempty"`
}

// RowFailure reports an import row that was skipped.
type RowFailure struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportSummary describes the outcome of a batch load.
type ImportSummary struct {
	Imported int                 `json:"imported"`
	Rounds   []rounddomain.Round `json:"rounds"`
	Skipped  []RowFailure        `json:"skipped,omitempty"`
}

// ClearSummary describes a bulk delete.
type ClearSummary struct {
	Deleted int `json:"deleted"`
}

type (
	RoundOperationResult  = results.OperationResult[rounddomain.Round, RoundFailure]
	ImportOperationResult = results.OperationResult[ImportSummary, RoundFailure]
	ClearOperationResult  = results.OperationResult[ClearSummary, RoundFailure]
)
