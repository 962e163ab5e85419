package roundhandlers

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace/noop"

	roundservice "github.com/Black-And-White-Club/golf-handicap/app/modules/round/application"
	rounddomain "github.com/Black-And-White-Club/golf-handicap/app/modules/round/domain"
	roundutil "github.com/Black-And-White-Club/golf-handicap/app/modules/round/utils"
	"github.com/Black-And-White-Club/golf-handicap/internal/observability"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	trace []string

	RecordRoundFunc      func(ctx context.Context, ownerID string, in rounddomain.RoundInput) (roundservice.RoundOperationResult, error)
	ListRoundsFunc       func(ctx context.Context, ownerID string) ([]rounddomain.Round, error)
	ClearRoundsFunc      func(ctx context.Context, ownerID string) (roundservice.ClearOperationResult, error)
	HandicapIndexFunc    func(ctx context.Context, ownerID string) (rounddomain.IndexSummary, error)
	RecalculateIndexFunc func(ctx context.Context, ownerID string) (rounddomain.IndexSummary, error)
	LoadDemoRoundsFunc   func(ctx context.Context, ownerID string) (roundservice.ImportOperationResult, error)
	ImportRoundsFunc     func(ctx context.Context, ownerID, filename string, data []byte) (roundservice.ImportOperationResult, error)
	HandicapChartFunc    func(ctx context.Context, ownerID string) ([]byte, error)

	invalidated []string
}

var _ roundservice.Service = (*FakeService)(nil)

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) RecordRound(ctx context.Context, ownerID string, in rounddomain.RoundInput) (roundservice.RoundOperationResult, error) {
	f.record("RecordRound")
	if f.RecordRoundFunc != nil {
		return f.RecordRoundFunc(ctx, ownerID, in)
	}
	return roundservice.RoundOperationResult{}, nil
}

func (f *FakeService) ListRounds(ctx context.Context, ownerID string) ([]rounddomain.Round, error) {
	f.record("ListRounds")
	if f.ListRoundsFunc != nil {
		return f.ListRoundsFunc(ctx, ownerID)
	}
	return []rounddomain.Round{}, nil
}

func (f *FakeService) ClearRounds(ctx context.Context, ownerID string) (roundservice.ClearOperationResult, error) {
	f.record("ClearRounds")
	if f.ClearRoundsFunc != nil {
		return f.ClearRoundsFunc(ctx, ownerID)
	}
	return roundservice.ClearOperationResult{Success: &roundservice.ClearSummary{}}, nil
}

func (f *FakeService) HandicapIndex(ctx context.Context, ownerID string) (rounddomain.IndexSummary, error) {
	f.record("HandicapIndex")
	if f.HandicapIndexFunc != nil {
		return f.HandicapIndexFunc(ctx, ownerID)
	}
	return rounddomain.IndexSummary{}, nil
}

func (f *FakeService) RecalculateIndex(ctx context.Context, ownerID string) (rounddomain.IndexSummary, error) {
	f.record("RecalculateIndex")
	if f.RecalculateIndexFunc != nil {
		return f.RecalculateIndexFunc(ctx, ownerID)
	}
	return rounddomain.IndexSummary{}, nil
}

func (f *FakeService) InvalidateIndex(_ context.Context, ownerID string) {
	f.record("InvalidateIndex")
	f.invalidated = append(f.invalidated, ownerID)
}

func (f *FakeService) LoadDemoRounds(ctx context.Context, ownerID string) (roundservice.ImportOperationResult, error) {
	f.record("LoadDemoRounds")
	if f.LoadDemoRoundsFunc != nil {
		return f.LoadDemoRoundsFunc(ctx, ownerID)
	}
	return roundservice.ImportOperationResult{Success: &roundservice.ImportSummary{}}, nil
}

func (f *FakeService) ImportRounds(ctx context.Context, ownerID, filename string, data []byte) (roundservice.ImportOperationResult, error) {
	f.record("ImportRounds")
	if f.ImportRoundsFunc != nil {
		return f.ImportRoundsFunc(ctx, ownerID, filename, data)
	}
	return roundservice.ImportOperationResult{Success: &roundservice.ImportSummary{}}, nil
}

func (f *FakeService) HandicapChart(ctx context.Context, ownerID string) ([]byte, error) {
	f.record("HandicapChart")
	if f.HandicapChartFunc != nil {
		return f.HandicapChartFunc(ctx, ownerID)
	}
	return nil, nil
}

var testNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func newTestHandlers(svc *FakeService) *RoundHandlers {
	return NewRoundHandlers(
		svc,
		roundutil.NewAnchorClock(testNow),
		observability.NoOpLogger,
		noop.NewTracerProvider().Tracer("test"),
		1<<20,
	)
}
