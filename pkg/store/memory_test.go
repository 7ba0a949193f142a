package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokensReplaceNotMerge(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	csrf, err := s.CSRFToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, csrf)

	require.NoError(t, s.StoreCSRFToken(ctx, "first"))
	require.NoError(t, s.StoreCSRFToken(ctx, "second"))
	require.NoError(t, s.StoreBearerToken(ctx, "bearer-1"))

	csrf, _ = s.CSRFToken(ctx)
	bearer, _ := s.BearerToken(ctx)
	assert.Equal(t, "second", csrf)
	assert.Equal(t, "bearer-1", bearer)

	require.NoError(t, s.Clear(ctx))
	csrf, _ = s.CSRFToken(ctx)
	bearer, _ = s.BearerToken(ctx)
	assert.Empty(t, csrf)
	assert.Empty(t, bearer)
}

func TestMemoryUserData(t *testing.T) {
	ctx := context.Background()
	s := &Memory{}

	v, err := s.UserData(ctx, "collection", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)

	require.NoError(t, s.StoreUserData(ctx, "collection", "c-1"))
	v, _ = s.UserData(ctx, "collection", nil)
	assert.Equal(t, "c-1", v)

	require.NoError(t, s.Clear(ctx))
	v, _ = s.UserData(ctx, "collection", nil)
	assert.Equal(t, "c-1", v, "Clear only drops tokens")

	require.NoError(t, s.ClearUserData(ctx, "collection"))
	v, _ = s.UserData(ctx, "collection", nil)
	assert.Nil(t, v)
}
