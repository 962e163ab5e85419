package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	authservice "github.com/Black-And-White-Club/golf-handicap/app/modules/auth/application"
	authhandlers "github.com/Black-And-White-Club/golf-handicap/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/golf-handicap/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/golf-handicap/config"
	"github.com/Black-And-White-Club/golf-handicap/internal/observability"
)

// Module represents the auth module. Other modules protect their routes with
// RequireIdentity.
type Module struct {
	config        *config.Config
	observability observability.Observability
	service       authservice.Service
	handlers      authhandlers.Handlers
	cancelFunc    context.CancelFunc
	logger        *slog.Logger
}

// NewModule creates a new auth module. In development the token endpoint is
// mounted on httpRouter so local clients can obtain a bearer token.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "Initializing auth module")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("auth module: %w", err)
	}

	jwtProvider := authjwt.NewProvider(cfg.JWT.Secret)

	service := authservice.NewService(
		jwtProvider,
		authservice.Config{DefaultTTL: cfg.JWT.DefaultTTL},
		logger,
		tracer,
	)

	handlers := authhandlers.NewAuthHandlers(service, logger, tracer)

	if httpRouter != nil && cfg.Observability.Environment == "development" {
		httpRouter.Route("/api/auth", func(r chi.Router) {
			r.Use(authhandlers.RateLimitMiddleware(authhandlers.NewIPRateLimiter(5, 10)))
			r.Post("/token", handlers.HandleIssueToken)
		})
		logger.WarnContext(ctx, "Development token endpoint enabled", slog.String("path", "/api/auth/token"))
	}

	return &Module{
		config:        cfg,
		observability: obs,
		service:       service,
		handlers:      handlers,
		logger:        logger,
	}, nil
}

// RequireIdentity returns the bearer token middleware backed by this module.
func (m *Module) RequireIdentity() func(http.Handler) http.Handler {
	return authhandlers.RequireIdentity(m.service, m.logger)
}

// Run starts the auth module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting auth module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Auth module goroutine stopped")
}

// Close stops the auth module.
func (m *Module) Close() error {
	m.logger.Info("Stopping auth module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	m.logger.Info("Auth module stopped")
	return nil
}

// GetService returns the auth service for use by other modules.
func (m *Module) GetService() authservice.Service {
	return m.service
}
