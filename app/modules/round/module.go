package round

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	roundservice "github.com/Black-And-White-Club/golf-handicap/app/modules/round/application"
	"github.com/Black-And-White-Club/golf-handicap/app/modules/round/application/parsers"
	roundcache "github.com/Black-And-White-Club/golf-handicap/app/modules/round/infrastructure/cache"
	roundhandlers "github.com/Black-And-White-Club/golf-handicap/app/modules/round/infrastructure/handlers"
	rounddb "github.com/Black-And-White-Club/golf-handicap/app/modules/round/infrastructure/repositories"
	roundrouter "github.com/Black-And-White-Club/golf-handicap/app/modules/round/infrastructure/router"
	roundutil "github.com/Black-And-White-Club/golf-handicap/app/modules/round/utils"
	"github.com/Black-And-White-Club/golf-handicap/config"
	"github.com/Black-And-White-Club/golf-handicap/internal/eventbus"
	"github.com/Black-And-White-Club/golf-handicap/internal/observability"
)

// Module represents the round module.
type Module struct {
	EventBus     eventbus.EventBus
	RoundService roundservice.Service
	RoundRouter  *roundrouter.RoundRouter
	handlers     *roundhandlers.RoundHandlers
	logger       *slog.Logger
	config       *config.Config
	cancelFunc   context.CancelFunc
}

// NewRoundModule creates the round module, registers its event handlers on
// router and mounts its API under /api/v1 on httpRouter behind requireIdentity.
func NewRoundModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
	router *message.Router,
	httpRouter chi.Router,
	requireIdentity func(http.Handler) http.Handler,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "round.NewRoundModule called")

	repo := rounddb.NewRepository(db)

	clock := roundutil.RealClock{}

	roundService := roundservice.NewRoundService(
		repo,
		eventBus,
		roundcache.NewIndexCache(0),
		parsers.NewFactory(),
		clock,
		logger,
		obs.RoundMetrics,
		tracer,
		db,
	)

	maxImport := int64(cfg.OCR.MaxUploadMB) << 20
	handlers := roundhandlers.NewRoundHandlers(roundService, clock, logger, tracer, maxImport)

	roundRouter := roundrouter.NewRoundRouter(logger, router, eventBus, eventBus, tracer, obs.Registry)
	if err := roundRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure round router: %w", err)
	}

	if httpRouter != nil {
		MountRoutes(httpRouter, handlers, requireIdentity)
	}

	return &Module{
		EventBus:     eventBus,
		RoundService: roundService,
		RoundRouter:  roundRouter,
		handlers:     handlers,
		logger:       logger,
		config:       cfg,
	}, nil
}

// MountRoutes registers the round API on r. CORS is applied by the caller on
// the root router so preflight requests reach it.
func MountRoutes(
	r chi.Router,
	h roundhandlers.HTTPHandlers,
	requireIdentity func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		if requireIdentity != nil {
			r.Use(requireIdentity)
		}

		r.Get("/api/v1/rounds", h.HandleListRounds)
		r.Post("/api/v1/rounds", h.HandleRecordRound)
		r.Delete("/api/v1/rounds", h.HandleClearRounds)
		r.Post("/api/v1/rounds/demo", h.HandleLoadDemoRounds)
		r.Post("/api/v1/rounds/import", h.HandleImportRounds)
		r.Get("/api/v1/handicap", h.HandleGetHandicap)
		r.Get("/api/v1/handicap/chart.png", h.HandleHandicapChart)
	})
}

// Run keeps the module alive until ctx is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting round module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.Info("Round module goroutine stopped")
}

func (m *Module) Close() error {
	m.logger.Info("Stopping round module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	m.logger.Info("Round module stopped")
	return nil
}
