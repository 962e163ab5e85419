package roundapplicationtests

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	rounddomain "github.com/Black-And-White-Club/golf-handicap/app/modules/round/domain"
	roundevents "github.com/Black-And-White-Club/golf-handicap/app/modules/round/events"
	"github.com/Black-And-White-Club/golf-handicap/integration_tests/testutils"
	"github.com/Black-And-White-Club/golf-handicap/internal/eventbus"
	"github.com/Black-And-White-Club/golf-handicap/internal/observability"
)

func TestRoundService_DemoRoundsLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := h.env.Ctx
	owner := "golfer-1"

	result, err := h.service.LoadDemoRounds(ctx, owner)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	require.Equal(t, 5, result.Success.Imported)

	rounds, err := h.service.ListRounds(ctx, owner)
	require.NoError(t, err)
	require.Len(t, rounds, 5)
	require.Equal(t, "2024-02-12", rounds[0].Date)
	require.Equal(t, "2024-01-15", rounds[4].Date)
	require.InDelta(t, 9.5076, rounds[4].Differential, 0.0001)

	summary, err := h.service.HandicapIndex(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, 9.7, summary.Index)
	require.Equal(t, 5, summary.RoundsPlayed)
	require.Equal(t, 3, summary.RoundsCounted)

	update := h.waitForIndex(t, 1)
	require.Equal(t, owner, update.OwnerID)
	require.Equal(t, 9.7, update.Index)

	other, err := h.service.ListRounds(ctx, "golfer-2")
	require.NoError(t, err)
	require.Empty(t, other)

	cleared, err := h.service.ClearRounds(ctx, owner)
	require.NoError(t, err)
	require.True(t, cleared.IsSuccess())
	require.Equal(t, 5, cleared.Success.Deleted)

	update = h.waitForIndex(t, 2)
	require.Equal(t, 0.0, update.Index)
	require.Equal(t, 0, update.RoundsPlayed)

	summary, err = h.service.HandicapIndex(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, 0.0, summary.Index)
}

func TestRoundService_ImportCSV(t *testing.T) {
	h := newHarness(t)
	ctx := h.env.Ctx
	owner := "golfer-1"

	data := "Date,Course,Rating,Slope,Gross\n" +
		"2024-01-15,Pebble Beach Golf Links,72.8,145,85\n" +
		"2024-01-16,Bad Slope Club,72.0,abc,90\n" +
		"01/22/2024,Augusta National,78.1,137,92\n"

	result, err := h.service.ImportRounds(ctx, owner, "history.csv", []byte(data))
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	require.Equal(t, 2, result.Success.Imported)
	require.Len(t, result.Success.Skipped, 1)
	require.Equal(t, 3, result.Success.Skipped[0].Line)

	rounds, err := h.service.ListRounds(ctx, owner)
	require.NoError(t, err)
	require.Len(t, rounds, 2)
	require.Equal(t, "2024-01-22", rounds[0].Date)

	update := h.waitForIndex(t, 1)
	// (9.5076 + 11.4650) / 2
	require.Equal(t, 10.5, update.Index)
}

func TestRoundService_RecordRoundRejectsInvalidInput(t *testing.T) {
	h := newHarness(t)
	ctx := h.env.Ctx

	result, err := h.service.RecordRound(ctx, "golfer-1", roundInput(0))
	require.NoError(t, err)
	require.True(t, result.IsFailure())

	rounds, err := h.service.ListRounds(ctx, "golfer-1")
	require.NoError(t, err)
	require.Empty(t, rounds)
}

func TestRoundService_RecordRoundFullWindow(t *testing.T) {
	h := newHarness(t)
	ctx := h.env.Ctx
	owner := "golfer-1"

	gen := testutils.NewTestDataGenerator(11)
	inputs := gen.RoundInputs(25, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var diffs []float64
	for _, in := range inputs {
		result, err := h.service.RecordRound(ctx, owner, in)
		require.NoError(t, err)
		require.True(t, result.IsSuccess(), "%+v", result.Failure)
		diffs = append(diffs, result.Success.Differential)
	}

	summary, err := h.service.RecalculateIndex(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, 25, summary.RoundsPlayed)
	require.Equal(t, rounddomain.FullWindowCount, summary.RoundsCounted)
	require.Equal(t, rounddomain.HandicapIndex(diffs), summary.Index)

	require.True(t, h.capture.WaitForMessages(roundevents.HandicapIndexUpdatedV1, 25, 10*time.Second))
}

func TestRoundService_WriteOnOneInstanceRefreshesAnother(t *testing.T) {
	h := newHarness(t)
	ctx := h.env.Ctx
	owner := "golfer-1"

	bus := eventbus.NewInMemory(observability.NoOpLogger)
	t.Cleanup(func() { _ = bus.Close() })
	a := startInstance(t, h.env, bus)
	b := startInstance(t, h.env, bus)

	result, err := a.LoadDemoRounds(ctx, owner)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	// b caches the five-round index
	require.Eventually(t, func() bool {
		summary, err := b.HandicapIndex(ctx, owner)
		return err == nil && summary.Index == 9.7
	}, 5*time.Second, 20*time.Millisecond)

	recorded, err := a.RecordRound(ctx, owner, roundInput(80))
	require.NoError(t, err)
	require.True(t, recorded.IsSuccess())

	// six rounds: best three are 3.6882, 9.1858 and 9.5076
	require.Eventually(t, func() bool {
		summary, err := b.HandicapIndex(ctx, owner)
		return err == nil && summary.RoundsPlayed == 6 && summary.Index == 7.5
	}, 5*time.Second, 20*time.Millisecond)

	rounds, err := b.ListRounds(ctx, owner)
	require.NoError(t, err)
	require.Len(t, rounds, 6)
}

func roundInput(gross int) rounddomain.RoundInput {
	return rounddomain.RoundInput{
		Date:   "2024-03-01",
		Course: "Torrey Pines Golf Course",
		Rating: 75.3,
		Slope:  144,
		Gross:  gross,
	}
}
