package store

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestBearerExpiry(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "eperson-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("not-the-server-key"))
	require.NoError(t, err)

	got, err := BearerExpiry(token)
	require.NoError(t, err)
	require.True(t, exp.Equal(got), "want %s got %s", exp, got)
}

func TestBearerExpiryWithoutClaim(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "x"}).
		SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = BearerExpiry(token)
	require.Error(t, err)
}

func TestBearerExpiryOpaqueToken(t *testing.T) {
	_, err := BearerExpiry("not-a-jwt")
	require.Error(t, err)
}
