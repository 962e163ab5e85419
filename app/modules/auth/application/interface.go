package authservice

import (
	"context"
	"time"

	authdomain "github.com/Black-And-White-Club/golf-handicap/app/modules/auth/domain"
)

// Service defines the authentication service interface.
type Service interface {
	// IssueToken mints a bearer token for the owner.
	IssueToken(ctx context.Context, ownerID string, ttl time.Duration) (*TokenResponse, error)

	// ValidateToken validates a bearer token and returns the claims if valid.
	ValidateToken(ctx context.Context, tokenString string) (*authdomain.Claims, error)
}

// TokenResponse is a freshly minted bearer token.
type TokenResponse struct {
	Token     string    `json:"token"`
	OwnerID   string    `json:"owner_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
