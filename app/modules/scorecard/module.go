package scorecard

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	authhandlers "github.com/Black-And-White-Club/golf-handicap/app/modules/auth/infrastructure/handlers"
	scorecardservice "github.com/Black-And-White-Club/golf-handicap/app/modules/scorecard/application"
	scorecardhandlers "github.com/Black-And-White-Club/golf-handicap/app/modules/scorecard/infrastructure/handlers"
	"github.com/Black-And-White-Club/golf-handicap/app/modules/scorecard/infrastructure/ocr"
	"github.com/Black-And-White-Club/golf-handicap/config"
	"github.com/Black-And-White-Club/golf-handicap/internal/observability"
)

// DefaultScanRatePerMinute applies when no scan rate is configured.
const DefaultScanRatePerMinute = 10

// Module represents the scorecard module.
type Module struct {
	Service    scorecardservice.Service
	pool       *ocr.Pool
	logger     *slog.Logger
	cancelFunc context.CancelFunc
}

// NewModule builds the OCR engine pool and mounts the scan endpoint on
// httpRouter behind requireIdentity and a per-IP rate limit.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	httpRouter chi.Router,
	requireIdentity func(http.Handler) http.Handler,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "Initializing scorecard module")

	pool, err := ocr.NewTesseractPool(ocr.TesseractConfig{
		Path:     cfg.OCR.TesseractPath,
		Language: cfg.OCR.Language,
		Timeout:  cfg.OCR.Timeout,
	}, cfg.OCR.PoolSize, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create ocr engine pool: %w", err)
	}

	service := scorecardservice.NewScanService(pool, logger, obs.ScanMetrics, obs.Tracer)
	handlers := scorecardhandlers.NewScorecardHandlers(service, logger, obs.Tracer, int64(cfg.OCR.MaxUploadMB)<<20)

	if httpRouter != nil {
		perMinute := cfg.HTTP.ScanRatePerMinute
		if perMinute <= 0 {
			perMinute = DefaultScanRatePerMinute
		}
		limiter := authhandlers.NewIPRateLimiter(rate.Limit(float64(perMinute)/60), perMinute)
		MountRoutes(httpRouter, handlers, limiter, requireIdentity)
	}

	logger.InfoContext(ctx, "Scorecard module initialized", slog.Int("ocr_pool_size", pool.Size()))

	return &Module{
		Service: service,
		pool:    pool,
		logger:  logger,
	}, nil
}

// MountRoutes registers the scan endpoint on r.
func MountRoutes(
	r chi.Router,
	h scorecardhandlers.Handlers,
	limiter *authhandlers.IPRateLimiter,
	requireIdentity func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		if requireIdentity != nil {
			r.Use(requireIdentity)
		}
		r.Use(authhandlers.RateLimitMiddleware(limiter))
		r.Post("/api/v1/scorecards/scan", h.HandleScan)
	})
}

// Run keeps the module alive until ctx is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting scorecard module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.Info("Scorecard module goroutine stopped")
}

// Close stops the module and its OCR engines.
func (m *Module) Close() error {
	m.logger.Info("Stopping scorecard module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if err := m.pool.Close(); err != nil {
		return fmt.Errorf("failed to close ocr engine pool: %w", err)
	}

	m.logger.Info("Scorecard module stopped")
	return nil
}
