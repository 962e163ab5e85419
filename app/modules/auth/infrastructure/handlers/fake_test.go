package authhandlers

import (
	"context"
	"time"

	authservice "github.com/Black-And-White-Club/golf-handicap/app/modules/auth/application"
	authdomain "github.com/Black-And-White-Club/golf-handicap/app/modules/auth/domain"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	IssueTokenFunc    func(ctx context.Context, ownerID string, ttl time.Duration) (*authservice.TokenResponse, error)
	ValidateTokenFunc func(ctx context.Context, tokenString string) (*authdomain.Claims, error)
}

func (f *FakeService) IssueToken(ctx context.Context, ownerID string, ttl time.Duration) (*authservice.TokenResponse, error) {
	if f.IssueTokenFunc != nil {
		return f.IssueTokenFunc(ctx, ownerID, ttl)
	}
	return &authservice.TokenResponse{Token: "fake-token", OwnerID: ownerID}, nil
}

func (f *FakeService) ValidateToken(ctx context.Context, tokenString string) (*authdomain.Claims, error) {
	if f.ValidateTokenFunc != nil {
		return f.ValidateTokenFunc(ctx, tokenString)
	}
	return &authdomain.Claims{OwnerID: "owner-1"}, nil
}
