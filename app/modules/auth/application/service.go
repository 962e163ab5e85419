package authservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	authdomain "github.com/Black-And-White-Club/golf-handicap/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/golf-handicap/app/modules/auth/infrastructure/jwt"
)

// Config holds the configuration for the auth service.
type Config struct {
	DefaultTTL time.Duration
}

// service implements the Service interface.
type service struct {
	jwtProvider authjwt.Provider
	config      Config
	logger      *slog.Logger
	tracer      trace.Tracer
}

// NewService creates a new auth service.
func NewService(
	jwtProvider authjwt.Provider,
	config Config,
	logger *slog.Logger,
	tracer trace.Tracer,
) Service {
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = DefaultTokenTTL
	}
	return &service{
		jwtProvider: jwtProvider,
		config:      config,
		logger:      logger,
		tracer:      tracer,
	}
}

const DefaultTokenTTL = 24 * time.Hour

// IssueToken mints a bearer token for the owner. A non-positive ttl uses the
// configured default.
func (s *service) IssueToken(ctx context.Context, ownerID string, ttl time.Duration) (*TokenResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.IssueToken")
	defer span.End()

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	if ttl <= 0 {
		ttl = s.config.DefaultTTL
	}

	s.logger.InfoContext(ctx, "Issuing token",
		slog.String("owner_id", ownerID),
		slog.Duration("ttl", ttl),
	)

	expiresAt := time.Now().Add(ttl)
	token, err := s.jwtProvider.GenerateToken(&authdomain.Claims{OwnerID: ownerID}, ttl)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate token",
			slog.String("owner_id", ownerID),
			slog.Any("error", err),
		)
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %w", ErrGenerateToken, err)
	}

	return &TokenResponse{Token: token, OwnerID: ownerID, ExpiresAt: expiresAt}, nil
}

// ValidateToken validates a bearer token and returns the claims if valid.
func (s *service) ValidateToken(ctx context.Context, tokenString string) (*authdomain.Claims, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.ValidateToken")
	defer span.End()

	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims, err := s.jwtProvider.ValidateToken(tokenString)
	if err != nil {
		s.logger.WarnContext(ctx, "Token validation failed",
			slog.Any("error", err),
		)
		if errors.Is(err, authjwt.ErrExpiredToken) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	return claims, nil
}
