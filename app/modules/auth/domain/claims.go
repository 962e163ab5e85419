package authdomain

import (
	"context"
	"time"
)

// Claims represents the identity carried by a bearer token.
type Claims struct {
	OwnerID   string
	TokenID   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsExpired checks if the claims have expired.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

type claimsKey struct{}

// WithClaims returns a context carrying the authenticated claims.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromContext returns the claims stored by WithClaims.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}

// OwnerIDFromContext returns the authenticated owner, or "" when there is none.
func OwnerIDFromContext(ctx context.Context) string {
	if c, ok := ClaimsFromContext(ctx); ok {
		return c.OwnerID
	}
	return ""
}
