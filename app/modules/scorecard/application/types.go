package scorecardservice

import (
	scorecarddomain "github.com/Black-And-White-Club/golf-handicap/app/modules/scorecard/domain"
	"github.com/Black-And-White-Club/golf-handicap/internal/results"
)

// ScanResult is what a scan found, plus the values to prefill the round form.
type ScanResult struct {
	Extraction scorecarddomain.Extraction `json:"extraction"`
	Form       scorecarddomain.Form       `json:"form"`
}

// ScanFailure explains why an upload could not be scanned.
type ScanFailure struct {
	Reason string `json:"reason"`
}

type ScanOperationResult = results.OperationResult[ScanResult, ScanFailure]
