// Package fetch retrieves the remote content of files before they are uploaded.
//
// A [Registry] picks a [Fetcher] by URI scheme. [NewRegistry] handles http and
// https out of the box; [S3] and [GCS] can be registered for s3:// and gs:// sources.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/divinity/dspace.go/pkg/constants"
)

// Source describes where a file's content lives.
type Source struct {
	URI string
	// Username and Password are sent as basic auth by fetchers that support it.
	Username string
	Password string
}

// Fetcher opens the content behind a Source. Callers close the returned reader.
type Fetcher interface {
	Fetch(ctx context.Context, src Source) (io.ReadCloser, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, src Source) (io.ReadCloser, error)

func (f FetcherFunc) Fetch(ctx context.Context, src Source) (io.ReadCloser, error) {
	return f(ctx, src)
}

// Registry dispatches to a Fetcher registered for the URI scheme.
type Registry struct {
	mu       sync.RWMutex
	fetchers map[string]Fetcher
}

var _ Fetcher = (*Registry)(nil)

// NewRegistry returns a registry serving http and https with the default HTTP fetcher.
func NewRegistry() *Registry {
	r := &Registry{fetchers: make(map[string]Fetcher)}
	h := NewHTTP(nil)
	r.Register(constants.HTTPScheme, h)
	r.Register(constants.HTTPSecureScheme, h)
	return r
}

// Register sets the fetcher for scheme, replacing any previous one.
func (r *Registry) Register(scheme string, f Fetcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fetchers == nil {
		r.fetchers = make(map[string]Fetcher)
	}
	r.fetchers[strings.ToLower(scheme)] = f
}

func (r *Registry) Fetch(ctx context.Context, src Source) (io.ReadCloser, error) {
	u, err := url.Parse(src.URI)
	if err != nil {
		return nil, fmt.Errorf("parse source uri %q: %w", src.URI, err)
	}

	r.mu.RLock()
	f, ok := r.fetchers[strings.ToLower(u.Scheme)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", constants.ErrNoFetcher, u.Scheme)
	}
	return f.Fetch(ctx, src)
}

// splitBucketURI splits s3://bucket/key/path into bucket and key.
func splitBucketURI(uri, scheme string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("parse %s uri %q: %w", scheme, uri, err)
	}
	if !strings.EqualFold(u.Scheme, scheme) || u.Host == "" {
		return "", "", fmt.Errorf("%w: %q is not a %s:// uri", constants.ErrInvalidArgument, uri, scheme)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("%w: %q has no object key", constants.ErrInvalidArgument, uri)
	}
	return u.Host, key, nil
}
