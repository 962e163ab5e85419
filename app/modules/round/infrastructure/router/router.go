package roundrouter

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	roundevents "github.com/Black-And-White-Club/golf-handicap/app/modules/round/events"
	roundhandlers "github.com/Black-And-White-Club/golf-handicap/app/modules/round/infrastructure/handlers"
	"github.com/Black-And-White-Club/golf-handicap/internal/eventbus"
	"github.com/Black-And-White-Club/golf-handicap/internal/handlerwrapper"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

type RoundRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	tracer     trace.Tracer

	metricsBuilder *metrics.PrometheusMetricsBuilder
	metricsEnabled bool
}

var _ Router = (*RoundRouter)(nil)

func NewRoundRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	tracer trace.Tracer,
	registry *prometheus.Registry,
) *RoundRouter {
	actualAppEnv := os.Getenv(TestEnvironmentFlag)
	inTestEnv := actualAppEnv == TestEnvironmentValue

	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if registry != nil && !inTestEnv {
		b := metrics.NewPrometheusMetricsBuilder(registry, "golf", "round_events")
		metricsBuilder = &b
	}

	return &RoundRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
		metricsEnabled: metricsBuilder != nil,
	}
}

func (r *RoundRouter) Configure(_ context.Context, handlers roundhandlers.Handlers) error {
	if r.metricsEnabled && r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	} else {
		r.logger.Info("Skipping Prometheus router metrics middleware - either in test environment or metrics not configured")
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			Logger:          watermill.NewSlogLogger(r.logger),
		}.Middleware,
	)

	r.registerHandlers(handlers)
	return nil
}

type handlerDeps struct {
	router     *message.Router
	subscriber message.Subscriber
	publisher  eventbus.EventBus
	logger     *slog.Logger
	tracer     trace.Tracer
}

// registerHandler registers a typed handler whose results the wrapper publishes.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	registerNamedHandler(deps, "round."+topic, topic, handler)
}

func registerNamedHandler[T any](
	deps handlerDeps,
	handlerName string,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	deps.router.AddConsumerHandler(
		handlerName,
		topic,
		deps.subscriber,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			deps.publisher,
			handler,
		),
	)
}

func (r *RoundRouter) registerHandlers(h roundhandlers.Handlers) {
	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
	}

	registerHandler(deps, roundevents.RoundRecordedV1, h.HandleRoundRecorded)
	registerHandler(deps, roundevents.RoundsImportedV1, h.HandleRoundsImported)
	registerHandler(deps, roundevents.RoundsClearedV1, h.HandleRoundsCleared)

	// every instance drops its own cached index, whichever one recomputes
	broadcast := deps
	broadcast.subscriber = eventbus.BroadcastSubscriber(r.subscriber)
	for _, topic := range roundevents.RoundSetChangedTopics {
		registerNamedHandler(broadcast, "round.cache."+topic, topic, h.HandleRoundSetChanged)
	}
}

func (r *RoundRouter) Close() error {
	return r.Router.Close()
}
