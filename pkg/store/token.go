package store

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// BearerExpiry reads the exp claim of a JWT bearer token without verifying
// its signature. The client only uses it to report session lifetime; the
// server remains the authority on whether a token is still accepted.
func BearerExpiry(token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse bearer token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("bearer token has no exp claim")
	}
	return claims.ExpiresAt.Time, nil
}
