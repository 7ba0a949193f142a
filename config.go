package dspace

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/divinity/dspace.go/pkg/cache"
	"github.com/divinity/dspace.go/pkg/config"
	"github.com/divinity/dspace.go/pkg/connection"
	dshttp "github.com/divinity/dspace.go/pkg/connection/http"
	"github.com/divinity/dspace.go/pkg/constants"
	"github.com/divinity/dspace.go/pkg/fetch"
	"github.com/divinity/dspace.go/pkg/logger"
	"github.com/divinity/dspace.go/pkg/store"
)

// Constructors for the resources FromConfig opens.
var (
	newRedisClient = redis.NewClient
	newS3Fetcher   = fetch.NewS3
	newGCSFetcher  = fetch.NewGCS
)

// FromConfig builds a client with the logger, session store, transport,
// page cache and file sources described by cfg. Options are applied last and
// win over cfg. Call Close when done.
func FromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrInvalidArgument, err)
	}

	var (
		base    []Option
		opened  []io.Closer
		release = func(err error) (*Client, error) {
			_ = (&Client{closers: opened}).Close()
			return nil, err
		}
	)
	own := func(cl io.Closer) Option {
		opened = append(opened, cl)
		return withCloser(cl)
	}

	build := logger.New().FromBuffer(os.Stderr).WithLevel(cfg.Log.Level)
	if cfg.Log.Path != "" {
		build = build.FromPath(cfg.Log.Path)
	}
	log, err := build.Make()
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	base = append(base, WithLogger(log), own(log))

	if cfg.Session.Store == config.StoreRedis {
		rdb := newRedisClient(&redis.Options{
			Addr:     cfg.Session.Redis.Addr,
			Password: cfg.Session.Redis.Password,
			DB:       cfg.Session.Redis.DB,
		})
		s := store.NewRedisFromClient(rdb, cfg.Session.Redis.Prefix, cfg.Session.TTL)
		base = append(base, WithTokenStore(s), own(s))
	}

	conn := connection.NewConfig()
	conn.Logger = log
	if cfg.HTTP.ConnectTimeout > 0 {
		conn.ConnectTimeout = cfg.HTTP.ConnectTimeout
	}
	if cfg.HTTP.Timeout > 0 {
		conn.Timeout = cfg.HTTP.Timeout
	}
	conn.RequestsPerSecond = cfg.HTTP.RequestsPerSecond
	conn.Burst = cfg.HTTP.Burst
	base = append(base, WithConnection(dshttp.New(conn)))

	if cfg.Cache.Enabled {
		var backend cache.Backend = cache.NewMemory()
		if cfg.Cache.Redis.Addr != "" {
			rdb := newRedisClient(&redis.Options{
				Addr:     cfg.Cache.Redis.Addr,
				Password: cfg.Cache.Redis.Password,
				DB:       cfg.Cache.Redis.DB,
			})
			backend = cache.NewRedis(rdb, cfg.Cache.Redis.Prefix)
			base = append(base, own(rdb))
		}
		ttl := cfg.Cache.TTL
		if ttl == 0 {
			ttl = 5 * time.Minute
		}
		base = append(base, WithPageCache(cache.New(backend, cache.WithTTL(ttl), cache.WithLogger(log))))
	}

	registry := fetch.NewRegistry()
	if cfg.Sources.S3 != nil {
		s3, err := newS3Fetcher(ctx, fetch.S3Config{Region: cfg.Sources.S3.Region, Endpoint: cfg.Sources.S3.Endpoint})
		if err != nil {
			return release(err)
		}
		registry.Register(constants.S3Scheme, s3)
	}
	if cfg.Sources.GCS != nil && cfg.Sources.GCS.Enabled {
		gcs, err := newGCSFetcher(ctx)
		if err != nil {
			return release(err)
		}
		registry.Register(constants.GCSScheme, gcs)
		base = append(base, own(gcs))
	}
	base = append(base, WithFetcher(registry))

	return New(cfg.API.Root, cfg.API.Username, cfg.API.Password, append(base, opts...)...), nil
}
