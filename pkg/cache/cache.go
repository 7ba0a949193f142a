// Package cache keeps successful GET responses so repeated page fetches can
// skip the network. It wraps a connection.RequestFunc and is plugged into
// item iteration with dspace.WithRequestFunc.
package cache

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/divinity/dspace.go/internal/codec"
	"github.com/divinity/dspace.go/pkg/connection"
	"github.com/divinity/dspace.go/pkg/logger"
)

// Backend stores opaque entries by key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type entry struct {
	StatusCode  int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// Cache serves GET requests from a Backend.
type Cache struct {
	backend Backend
	ttl     time.Duration
	codec   codec.Codec
	logger  logger.Logger
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

func WithLogger(l logger.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// New returns a cache over backend. The default TTL is five minutes.
func New(backend Backend, opts ...Option) *Cache {
	c := &Cache{
		backend: backend,
		ttl:     5 * time.Minute,
		codec:   codec.NewJSON(),
		logger:  logger.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Wrap returns a RequestFunc that answers GETs from the cache and stores
// 2xx GET responses from next. Backend failures fall through to next.
func (c *Cache) Wrap(next connection.RequestFunc) connection.RequestFunc {
	return func(ctx context.Context, req *connection.Request) (*connection.Response, error) {
		if req.Method != http.MethodGet {
			return next(ctx, req)
		}

		key := Key(req)
		if raw, ok, err := c.backend.Get(ctx, key); err != nil {
			c.logger.Warn("cache lookup failed", "key", key, "error", err)
		} else if ok {
			var e entry
			if err := c.codec.Unmarshal(raw, &e); err == nil {
				c.logger.Debug("cache hit", "key", key)
				return &connection.Response{
					StatusCode: e.StatusCode,
					Header:     http.Header{"Content-Type": {e.ContentType}},
					Body:       e.Body,
				}, nil
			}
		}

		resp, err := next(ctx, req)
		if err != nil || !resp.OK() {
			return resp, err
		}
		raw, err := c.codec.Marshal(entry{
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        resp.Body,
		})
		if err == nil {
			err = c.backend.Set(ctx, key, raw, c.ttl)
		}
		if err != nil {
			c.logger.Warn("cache store failed", "key", key, "error", err)
		}
		return resp, nil
	}
}

// Invalidate drops the cached response for a GET of the absolute rawURL.
func (c *Cache) Invalidate(ctx context.Context, rawURL string) error {
	return c.backend.Delete(ctx, Key(connection.NewRequest(http.MethodGet, rawURL)))
}

// Key is the backend key for req. req.URL should be absolute so clients of
// different API roots sharing a backend keep separate entries.
func Key(req *connection.Request) string {
	return req.Method + " " + req.URL
}

// Memory is an in-process Backend.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

var _ Backend = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Len is the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
