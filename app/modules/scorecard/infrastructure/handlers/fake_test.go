package scorecardhandlers

import (
	"context"
	"io"

	scorecardservice "github.com/Black-And-White-Club/golf-handicap/app/modules/scorecard/application"
)

// FakeService is a programmable scorecardservice.Service.
type FakeService struct {
	trace []string

	ScanFunc func(ctx context.Context, image io.Reader) (scorecardservice.ScanOperationResult, error)
}

func (f *FakeService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeService) Trace() []string { return f.trace }

func (f *FakeService) Scan(ctx context.Context, image io.Reader) (scorecardservice.ScanOperationResult, error) {
	f.record("Scan")
	if f.ScanFunc != nil {
		return f.ScanFunc(ctx, image)
	}
	return scorecardservice.ScanOperationResult{}, nil
}

var _ scorecardservice.Service = (*FakeService)(nil)
