package dspace

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divinity/dspace.go/pkg/config"
	"github.com/divinity/dspace.go/pkg/fetch"
)

func TestFromConfigReleasesOnSourceFailure(t *testing.T) {
	var clients []*redis.Client
	newRedisClient = func(opt *redis.Options) *redis.Client {
		rdb := redis.NewClient(opt)
		clients = append(clients, rdb)
		return rdb
	}
	failure := errors.New("no credentials")
	newS3Fetcher = func(context.Context, fetch.S3Config) (*fetch.S3, error) {
		return nil, failure
	}
	t.Cleanup(func() {
		newRedisClient = redis.NewClient
		newS3Fetcher = fetch.NewS3
	})

	cfg := config.NewDefaultConfig()
	cfg.API.Root = "https://repo.test/server"
	cfg.API.Username = "admin"
	cfg.API.Password = "secret"
	cfg.Log.Level = "disabled"
	cfg.Session.Store = config.StoreRedis
	cfg.Session.Redis.Addr = "127.0.0.1:1"
	cfg.Cache.Enabled = true
	cfg.Cache.Redis.Addr = "127.0.0.1:1"
	cfg.Sources.S3 = &config.S3Config{Region: "us-east-1"}

	c, err := FromConfig(context.Background(), cfg)
	assert.Nil(t, c)
	require.ErrorIs(t, err, failure)

	require.Len(t, clients, 2)
	for _, rdb := range clients {
		assert.ErrorIs(t, rdb.Ping(context.Background()).Err(), redis.ErrClosed)
	}
}
