package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/divinity/dspace.go/internal/codec"
)

const (
	csrfKey     = "csrf"
	bearerKey   = "bearer"
	userDataKey = "data"
)

// RedisConfig holds configuration for Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key; sessions for different users need different prefixes.
	Prefix string
	// TTL expires tokens and data; zero keeps them until cleared.
	TTL time.Duration
}

// Redis is a TokenStore shared through a Redis server.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	codec  codec.Codec
}

var _ TokenStore = (*Redis)(nil)

// NewRedis creates a store backed by a new Redis client.
func NewRedis(cfg RedisConfig) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisFromClient(rdb, cfg.Prefix, cfg.TTL)
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = "dspace:session"
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl, codec: codec.NewJSON()}
}

func (s *Redis) key(parts ...string) string {
	k := s.prefix
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

func (s *Redis) storeToken(ctx context.Context, name, token string) error {
	if token == "" {
		return s.client.Del(ctx, s.key(name)).Err()
	}
	if err := s.client.Set(ctx, s.key(name), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis store %s token: %w", name, err)
	}
	return nil
}

func (s *Redis) fetchToken(ctx context.Context, name string) (string, error) {
	v, err := s.client.Get(ctx, s.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis fetch %s token: %w", name, err)
	}
	return v, nil
}

func (s *Redis) StoreCSRFToken(ctx context.Context, token string) error {
	return s.storeToken(ctx, csrfKey, token)
}

func (s *Redis) StoreBearerToken(ctx context.Context, token string) error {
	return s.storeToken(ctx, bearerKey, token)
}

func (s *Redis) CSRFToken(ctx context.Context) (string, error) {
	return s.fetchToken(ctx, csrfKey)
}

func (s *Redis) BearerToken(ctx context.Context) (string, error) {
	return s.fetchToken(ctx, bearerKey)
}

func (s *Redis) StoreUserData(ctx context.Context, key string, value any) error {
	data, err := s.codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode user data %q: %w", key, err)
	}
	if err := s.client.Set(ctx, s.key(userDataKey, key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis store user data %q: %w", key, err)
	}
	return nil
}

// UserData decodes the stored JSON value into a generic value (maps, slices,
// float64 numbers), matching what a JSON round trip produces.
func (s *Redis) UserData(ctx context.Context, key string, def any) (any, error) {
	data, err := s.client.Get(ctx, s.key(userDataKey, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis fetch user data %q: %w", key, err)
	}
	var v any
	if err := s.codec.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode user data %q: %w", key, err)
	}
	return v, nil
}

func (s *Redis) ClearUserData(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(userDataKey, key)).Err()
}

func (s *Redis) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key(csrfKey), s.key(bearerKey)).Err()
}

// Close closes the underlying client.
func (s *Redis) Close() error {
	return s.client.Close()
}
