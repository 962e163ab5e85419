package roundservice

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	rounddomain "github.com/Black-And-White-Club/golf-handicap/app/modules/round/domain"
	"github.com/Black-And-White-Club/golf-handicap/internal/results"
)

var (
	chartBackground   = drawing.ColorFromHex("0f1f17")
	chartText         = drawing.ColorFromHex("e8efe9")
	chartDifferential = drawing.ColorFromHex("6b8f71")
	chartIndex        = drawing.ColorFromHex("d4af37")
)

// HandicapChart renders the index trend as a PNG: each round's differential
// and the index as it stood after that round.
func (s *RoundService) HandicapChart(ctx context.Context, ownerID string) ([]byte, error) {
	result, err := withTelemetry(s, ctx, "HandicapChart", ownerID, func(ctx context.Context) (results.OperationResult[[]byte, RoundFailure], error) {
		models, err := s.repo.ListRounds(ctx, nil, ownerID)
		if err != nil {
			return results.OperationResult[[]byte, RoundFailure]{}, err
		}

		rounds := make([]rounddomain.Round, 0, len(models))
		for _, m := range models {
			rounds = append(rounds, m.ToDomain())
		}
		// stored newest first; the trend reads oldest first
		slices.Reverse(rounds)

		png, err := RenderHandicapChart(rounds)
		if err != nil {
			return results.OperationResult[[]byte, RoundFailure]{}, err
		}
		return results.SuccessResult[[]byte, RoundFailure](png), nil
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}

// RenderHandicapChart draws rounds ordered oldest first. Fewer than two rounds
// give a placeholder image.
func RenderHandicapChart(rounds []rounddomain.Round) ([]byte, error) {
	if len(rounds) < 2 {
		return renderNoDataPlaceholder("Record two rounds to see a trend")
	}

	xValues := make([]time.Time, len(rounds))
	for i, r := range rounds {
		t, err := time.Parse(rounddomain.DateLayout, r.Date)
		if err != nil {
			return nil, err
		}
		xValues[i] = t
	}
	diffs := rounddomain.Differentials(rounds)
	running := rounddomain.RunningIndex(diffs)

	lo := min(slices.Min(diffs), slices.Min(running))
	hi := max(slices.Max(diffs), slices.Max(running))

	first, last := xValues[0], xValues[len(xValues)-1]
	if !last.After(first) {
		first, last = first.AddDate(0, 0, -1), last.AddDate(0, 0, 1)
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: chartBackground,
		},
		Canvas: chart.Style{
			FillColor: chartBackground,
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat(rounddomain.DateLayout),
			Style:          chart.Style{FontColor: chartText},
			Range: &chart.ContinuousRange{
				Min: chart.TimeToFloat64(first),
				Max: chart.TimeToFloat64(last),
			},
		},
		YAxis: chart.YAxis{
			Name:  "Differential",
			Style: chart.Style{FontColor: chartText},
			Range: &chart.ContinuousRange{Min: lo - 1, Max: hi + 1},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Differential",
				XValues: xValues,
				YValues: diffs,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    4,
					DotColor:    chartDifferential,
				},
			},
			chart.TimeSeries{
				Name:    "Handicap Index",
				XValues: xValues,
				YValues: running,
				Style: chart.Style{
					StrokeColor: chartIndex,
					StrokeWidth: 2,
				},
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// renderNoDataPlaceholder draws msg centered on a blank canvas. chart.Chart
// refuses to render without a series, so this goes to the renderer directly.
func renderNoDataPlaceholder(msg string) ([]byte, error) {
	const (
		width  = 400
		height = 200
	)

	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	r.SetFillColor(chartBackground)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(chartText)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
