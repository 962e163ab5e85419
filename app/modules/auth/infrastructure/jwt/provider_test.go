package authjwt

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authdomain "github.com/Black-And-White-Club/golf-handicap/app/modules/auth/domain"
)

func TestProvider_GenerateAndValidateToken(t *testing.T) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "test-secret-at-least-32-chars-long!!"
	}
	p := NewProvider(secret)

	claims := &authdomain.Claims{OwnerID: "owner-123"}

	tests := []struct {
		name        string
		token       func(t *testing.T) string
		provider    Provider
		expectedErr error
		verify      func(t *testing.T, validated *authdomain.Claims)
	}{
		{
			name: "success",
			token: func(t *testing.T) string {
				tok, err := p.GenerateToken(claims, time.Hour)
				if err != nil {
					t.Fatalf("failed to generate token: %v", err)
				}
				return tok
			},
			verify: func(t *testing.T, validated *authdomain.Claims) {
				if validated.OwnerID != claims.OwnerID {
					t.Errorf("expected ownerID %s, got %s", claims.OwnerID, validated.OwnerID)
				}
				if validated.TokenID == "" {
					t.Error("expected a token ID")
				}
				if validated.IsExpired() {
					t.Error("fresh token reported as expired")
				}
			},
		},
		{
			name: "expired token",
			token: func(t *testing.T) string {
				tok, _ := p.GenerateToken(claims, -time.Hour)
				return tok
			},
			expectedErr: ErrExpiredToken,
		},
		{
			name: "invalid signature",
			token: func(t *testing.T) string {
				tok, _ := p.GenerateToken(claims, time.Hour)
				return tok
			},
			provider:    NewProvider("wrong-secret"),
			expectedErr: ErrInvalidSignature,
		},
		{
			name:        "malformed token",
			token:       func(*testing.T) string { return "not.a.jwt" },
			expectedErr: ErrInvalidToken,
		},
		{
			name: "foreign issuer",
			token: func(t *testing.T) string {
				tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
					Issuer:    "someone-else",
					Subject:   "owner-123",
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				}).SignedString([]byte(secret))
				if err != nil {
					t.Fatal(err)
				}
				return tok
			},
			expectedErr: ErrInvalidToken,
		},
		{
			name: "missing subject",
			token: func(t *testing.T) string {
				tok, _ := p.GenerateToken(&authdomain.Claims{}, time.Hour)
				return tok
			},
			expectedErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validateTarget := p
			if tt.provider != nil {
				validateTarget = tt.provider
			}

			validatedClaims, err := validateTarget.ValidateToken(tt.token(t))
			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Errorf("expected error %v, got %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.verify != nil {
				tt.verify(t, validatedClaims)
			}
		})
	}
}
