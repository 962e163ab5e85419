package roundapplicationtests

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	roundservice "github.com/Black-And-White-Club/golf-handicap/app/modules/round/application"
	"github.com/Black-And-White-Club/golf-handicap/app/modules/round/application/parsers"
	roundevents "github.com/Black-And-White-Club/golf-handicap/app/modules/round/events"
	roundcache "github.com/Black-And-White-Club/golf-handicap/app/modules/round/infrastructure/cache"
	roundhandlers "github.com/Black-And-White-Club/golf-handicap/app/modules/round/infrastructure/handlers"
	rounddb "github.com/Black-And-White-Club/golf-handicap/app/modules/round/infrastructure/repositories"
	roundrouter "github.com/Black-And-White-Club/golf-handicap/app/modules/round/infrastructure/router"
	roundutil "github.com/Black-And-White-Club/golf-handicap/app/modules/round/utils"
	"github.com/Black-And-White-Club/golf-handicap/integration_tests/testutils"
	"github.com/Black-And-White-Club/golf-handicap/internal/eventbus"
	"github.com/Black-And-White-Club/golf-handicap/internal/observability"
	watermillutil "github.com/Black-And-White-Club/golf-handicap/internal/watermill"
)

var clockNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type testHarness struct {
	env     *testutils.TestEnvironment
	service *roundservice.RoundService
	capture *testutils.MessageCapture
}

// newHarness wires the round service to Postgres and its event router to an
// in-memory bus the same way the round module does.
func newHarness(t *testing.T) *testHarness {
	t.Helper()
	t.Setenv(roundrouter.TestEnvironmentFlag, roundrouter.TestEnvironmentValue)

	env := testutils.NewTestEnvironment(t)
	bus := eventbus.NewInMemory(observability.NoOpLogger)
	t.Cleanup(func() { _ = bus.Close() })

	capture, err := testutils.NewMessageCapture(env.Ctx, bus, roundevents.HandicapIndexUpdatedV1)
	require.NoError(t, err)

	return &testHarness{env: env, service: startInstance(t, env, bus), capture: capture}
}

// startInstance runs one service instance with its own index cache and event
// router against the shared database and bus.
func startInstance(t *testing.T, env *testutils.TestEnvironment, bus eventbus.EventBus) *roundservice.RoundService {
	t.Helper()

	obs := observability.NewNoop()
	clock := &roundutil.FakeClock{NowFn: func() time.Time { return clockNow }}

	service := roundservice.NewRoundService(
		rounddb.NewRepository(env.DB),
		bus,
		roundcache.NewIndexCache(time.Minute),
		parsers.NewFactory(),
		clock,
		obs.Logger,
		obs.RoundMetrics,
		obs.Tracer,
		env.DB,
	)

	router, err := watermillutil.NewRouter(obs.Logger, time.Second)
	require.NoError(t, err)
	handlers := roundhandlers.NewRoundHandlers(service, clock, obs.Logger, obs.Tracer, 0)
	require.NoError(t, roundrouter.NewRoundRouter(obs.Logger, router, bus, bus, obs.Tracer, nil).Configure(env.Ctx, handlers))

	ctx, cancel := context.WithCancel(env.Ctx)
	go func() { _ = router.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		_ = router.Close()
	})
	<-router.Running()

	return service
}

// waitForIndex waits for the n-th index update and decodes it.
func (h *testHarness) waitForIndex(t *testing.T, n int) roundevents.HandicapIndexUpdatedPayloadV1 {
	t.Helper()
	require.True(t, h.capture.WaitForMessages(roundevents.HandicapIndexUpdatedV1, n, 5*time.Second),
		"expected %d index updates", n)

	msgs := h.capture.GetMessages(roundevents.HandicapIndexUpdatedV1)
	var payload roundevents.HandicapIndexUpdatedPayloadV1
	require.NoError(t, json.Unmarshal(msgs[n-1].Payload, &payload))
	return payload
}
