package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Runs only when DSPACE_TEST_REDIS_ADDR points at a disposable Redis server.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("DSPACE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("DSPACE_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	s := NewRedis(RedisConfig{Addr: addr, Prefix: "dspace:test:" + time.Now().Format("150405.000"), TTL: time.Minute})
	defer s.Close()

	require.NoError(t, s.StoreBearerToken(ctx, "b1"))
	require.NoError(t, s.StoreCSRFToken(ctx, "c1"))
	bearer, err := s.BearerToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "b1", bearer)

	require.NoError(t, s.StoreUserData(ctx, "counts", map[string]int{"items": 3}))
	v, err := s.UserData(ctx, "counts", nil)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"items": float64(3)}, v)

	require.NoError(t, s.Clear(ctx))
	csrf, err := s.CSRFToken(ctx)
	require.NoError(t, err)
	require.Empty(t, csrf)

	require.NoError(t, s.ClearUserData(ctx, "counts"))
	v, err = s.UserData(ctx, "counts", "none")
	require.NoError(t, err)
	require.Equal(t, "none", v)
}
