package scorecardservice

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Black-And-White-Club/golf-handicap/app/modules/scorecard/infrastructure/ocr"
	"github.com/Black-And-White-Club/golf-handicap/internal/observability"
)

// FakeEngine records the images it was asked to read.
type FakeEngine struct {
	trace []string

	RecognizeFunc func(ctx context.Context, img image.Image) (string, error)
	seen          []image.Image
}

func (f *FakeEngine) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeEngine) Trace() []string { return f.trace }

func (f *FakeEngine) Recognize(ctx context.Context, img image.Image) (string, error) {
	f.record("Recognize")
	f.seen = append(f.seen, img)
	if f.RecognizeFunc != nil {
		return f.RecognizeFunc(ctx, img)
	}
	return "", nil
}

func (f *FakeEngine) Close() error {
	f.record("Close")
	return nil
}

// FakePool lends out a single engine.
type FakePool struct {
	trace []string

	Engine     ocr.Engine
	AcquireErr error
}

func (f *FakePool) record(step string) { f.trace = append(f.trace, step) }

func (f *FakePool) Trace() []string { return f.trace }

func (f *FakePool) Acquire(context.Context) (ocr.Engine, error) {
	f.record("Acquire")
	if f.AcquireErr != nil {
		return nil, f.AcquireErr
	}
	return f.Engine, nil
}

func (f *FakePool) Release(ocr.Engine) { f.record("Release") }

var _ EnginePool = (*FakePool)(nil)

func newTestService(pool EnginePool) *ScanService {
	return NewScanService(pool, observability.NoOpLogger, &observability.NoOpScanMetrics{}, noop.NewTracerProvider().Tracer("test"))
}

// scorecardPNG draws a two-pixel image: one light, one dark.
func scorecardPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{R: 230, G: 230, B: 220, A: 255})
	img.Set(1, 0, color.NRGBA{R: 40, G: 30, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
