package scorecardservice

import (
	"context"
	"io"

	"github.com/Black-And-White-Club/golf-handicap/app/modules/scorecard/infrastructure/ocr"
)

// Service reads round details from scorecard photos.
type Service interface {
	Scan(ctx context.Context, image io.Reader) (ScanOperationResult, error)
}

// EnginePool lends out OCR engines.
type EnginePool interface {
	Acquire(ctx context.Context) (ocr.Engine, error)
	Release(ocr.Engine)
}
