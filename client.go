package dspace

import (
	"errors"
	"io"
	"strings"

	"github.com/divinity/dspace.go/internal/codec"
	"github.com/divinity/dspace.go/pkg/cache"
	"github.com/divinity/dspace.go/pkg/connection"
	dshttp "github.com/divinity/dspace.go/pkg/connection/http"
	"github.com/divinity/dspace.go/pkg/fetch"
	"github.com/divinity/dspace.go/pkg/logger"
	"github.com/divinity/dspace.go/pkg/store"
)

// Client talks to one DSpace server as one user.
//
// A Client is not safe for concurrent use: its token store and the upload
// links cached on items are rewritten by ordinary calls.
type Client struct {
	apiRoot  string
	username string
	password string

	store       store.TokenStore
	conn        connection.Exchanger
	fetcher     fetch.Fetcher
	logger      logger.Logger
	unmarshaler codec.Unmarshaler

	pageCache *cache.Cache

	resetTransport bool
	closers        []io.Closer
}

// Option configures a Client.
type Option func(*Client)

// WithTokenStore keeps the session in s instead of process memory.
func WithTokenStore(s store.TokenStore) Option {
	return func(c *Client) { c.store = s }
}

// WithConnection replaces the net/http engine.
func WithConnection(conn connection.Exchanger) Option {
	return func(c *Client) { c.conn = conn }
}

// WithFetcher sets what file contents are downloaded through before upload.
func WithFetcher(f fetch.Fetcher) Option {
	return func(c *Client) { c.fetcher = f }
}

func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithCodec sets how JSON responses are decoded.
func WithCodec(u codec.Unmarshaler) Option {
	return func(c *Client) { c.unmarshaler = u }
}

// WithPageCache serves ListItems pages through pc.
func WithPageCache(pc *cache.Cache) Option {
	return func(c *Client) { c.pageCache = pc }
}

// withCloser registers a resource released by Close.
func withCloser(cl io.Closer) Option {
	return func(c *Client) { c.closers = append(c.closers, cl) }
}

// New returns a client for the REST API rooted at apiRoot, for example
// "https://repo.example.org/server". No request is made until the first call.
func New(apiRoot, username, password string, opts ...Option) *Client {
	c := &Client{
		apiRoot:  strings.TrimRight(apiRoot, "/"),
		username: username,
		password: password,
	}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = logger.Nop()
	}
	if c.store == nil {
		c.store = store.NewMemory()
	}
	if c.unmarshaler == nil {
		c.unmarshaler = codec.NewJSON()
	}
	if c.fetcher == nil {
		c.fetcher = fetch.NewRegistry()
	}
	if c.conn == nil {
		cfg := connection.NewConfig()
		cfg.Logger = c.logger
		c.conn = dshttp.New(cfg)
	}
	return c
}

// APIRoot is the root every relative endpoint is resolved against.
func (c *Client) APIRoot() string {
	return c.apiRoot
}

// TokenStore is the store holding this client's session.
func (c *Client) TokenStore() store.TokenStore {
	return c.store
}

// URL resolves endpoint against the API root. Absolute URLs, such as the
// links found in responses, are returned unchanged.
func (c *Client) URL(endpoint string) string {
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	return c.apiRoot + "/" + strings.TrimLeft(endpoint, "/")
}

// Close releases resources opened by FromConfig.
func (c *Client) Close() error {
	var errs []error
	for _, cl := range c.closers {
		errs = append(errs, cl.Close())
	}
	c.closers = nil
	return errors.Join(errs...)
}
