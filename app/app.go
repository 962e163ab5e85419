package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/golf-handicap/app/modules/auth"
	authhandlers "github.com/Black-And-White-Club/golf-handicap/app/modules/auth/infrastructure/handlers"
	"github.com/Black-And-White-Club/golf-handicap/app/modules/round"
	"github.com/Black-And-White-Club/golf-handicap/app/modules/scorecard"
	"github.com/Black-And-White-Club/golf-handicap/config"
	"github.com/Black-And-White-Club/golf-handicap/internal/db/bundb"
	"github.com/Black-And-White-Club/golf-handicap/internal/eventbus"
	"github.com/Black-And-White-Club/golf-handicap/internal/modules"
	"github.com/Black-And-White-Club/golf-handicap/internal/observability"
	watermillutil "github.com/Black-And-White-Club/golf-handicap/internal/watermill"
)

// App wires the modules to the database, the event bus and the HTTP API.
type App struct {
	Config          *config.Config
	Observability   observability.Observability
	DB              *bun.DB
	EventBus        eventbus.EventBus
	Router          *message.Router
	HTTPRouter      *chi.Mux
	AuthModule      *auth.Module
	RoundModule     *round.Module
	ScorecardModule *scorecard.Module

	modules       *modules.Registry
	server        *http.Server
	metricsServer *http.Server
}

// Initialize loads configuration and builds every dependency. Nothing is
// served until Run.
func (app *App) Initialize(ctx context.Context, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	app.Config = cfg

	app.Observability = observability.New(cfg.Observability, os.Stdout)
	logger := app.Observability.Logger

	logger.InfoContext(ctx, "Initializing golf-handicap",
		slog.String("http_addr", cfg.HTTP.Addr),
		slog.Bool("nats", cfg.NATS.URL != ""),
	)

	app.DB, err = bundb.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	if cfg.Postgres.AutoMigrate {
		if err := bundb.Migrate(ctx, app.DB, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	app.EventBus, err = eventbus.NewEventBus(ctx, cfg.NATS, logger)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}

	app.Router, err = watermillutil.NewRouter(logger, watermillutil.DefaultCloseTimeout)
	if err != nil {
		return err
	}

	return app.initializeModules(ctx)
}

func (app *App) initializeModules(ctx context.Context) error {
	cfg := app.Config
	obs := app.Observability

	app.HTTPRouter = NewHTTPRouter(cfg, obs)

	authModule, err := auth.NewModule(ctx, cfg, obs, app.HTTPRouter)
	if err != nil {
		return fmt.Errorf("failed to initialize auth module: %w", err)
	}
	app.AuthModule = authModule
	requireIdentity := authModule.RequireIdentity()

	roundModule, err := round.NewRoundModule(ctx, cfg, obs, app.DB, app.EventBus, app.Router, app.HTTPRouter, requireIdentity)
	if err != nil {
		return fmt.Errorf("failed to initialize round module: %w", err)
	}
	app.RoundModule = roundModule

	scorecardModule, err := scorecard.NewModule(ctx, cfg, obs, app.HTTPRouter, requireIdentity)
	if err != nil {
		return fmt.Errorf("failed to initialize scorecard module: %w", err)
	}
	app.ScorecardModule = scorecardModule

	app.modules = modules.NewRegistry()
	app.modules.Register("auth", authModule)
	app.modules.Register("round", roundModule)
	app.modules.Register("scorecard", scorecardModule)

	return nil
}

// NewHTTPRouter builds the root router with CORS, a health check and, unless
// metrics have their own listener, the Prometheus endpoint.
func NewHTTPRouter(cfg *config.Config, obs observability.Observability) *chi.Mux {
	r := chi.NewRouter()
	r.Use(authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.Observability.MetricsAddress == "" {
		r.Handle("/metrics", metricsHandler(obs))
	}
	return r
}

func metricsHandler(obs observability.Observability) http.Handler {
	return promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{
		ErrorLog:      slog.NewLogLogger(obs.Logger.Handler(), slog.LevelError),
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

// Run starts the modules, the event router and the HTTP listeners, and blocks
// until ctx is canceled or a listener fails. It then shuts everything down.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.modules.RunAll(ctx)

	errCh := make(chan error, 3)
	go func() {
		if err := app.Router.Run(ctx); err != nil {
			errCh <- fmt.Errorf("watermill router: %w", err)
		}
	}()

	app.server = &http.Server{
		Addr:              app.Config.HTTP.Addr,
		Handler:           app.HTTPRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("HTTP server listening", slog.String("addr", app.server.Addr))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if addr := app.Config.Observability.MetricsAddress; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricsHandler(app.Observability))
		app.metricsServer = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			logger.Info("Metrics server listening", slog.String("addr", addr))
			if err := app.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown requested")
	case runErr = <-errCh:
		logger.Error("Component failed, shutting down", slog.Any("error", runErr))
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), app.Config.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	return errors.Join(runErr, app.Close(shutdownCtx))
}

// Close stops the listeners, the modules, the event router, the event bus and
// the database, in that order.
func (app *App) Close(ctx context.Context) error {
	var errs []error

	for _, srv := range []*http.Server{app.server, app.metricsServer} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shut down %s: %w", srv.Addr, err))
		}
	}

	if app.modules != nil {
		if err := app.modules.CloseAll(); err != nil {
			errs = append(errs, err)
		}
	}

	if app.Router != nil {
		if err := app.Router.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close watermill router: %w", err))
		}
	}

	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event bus: %w", err))
		}
	}

	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) == 0 {
		app.Observability.Logger.Info("Shutdown complete")
	}
	return errors.Join(errs...)
}
