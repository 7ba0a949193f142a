package fetch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divinity/dspace.go/pkg/constants"
)

func TestHTTPFetchWithBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "archivist" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("scanned page"))
	}))
	defer srv.Close()

	rc, err := NewRegistry().Fetch(context.Background(), Source{URI: srv.URL + "/scan.tiff", Username: "archivist", Password: "secret"})
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "scanned page", string(data))

	_, err = NewRegistry().Fetch(context.Background(), Source{URI: srv.URL + "/scan.tiff"})
	require.ErrorIs(t, err, constants.ErrHTTPStatus)
}

func TestRegistryUnknownScheme(t *testing.T) {
	_, err := NewRegistry().Fetch(context.Background(), Source{URI: "ftp://example.org/a.pdf"})
	require.ErrorIs(t, err, constants.ErrNoFetcher)
}

func TestRegistryCustomScheme(t *testing.T) {
	r := NewRegistry()
	var seen Source
	r.Register("S3", FetcherFunc(func(_ context.Context, src Source) (io.ReadCloser, error) {
		seen = src
		return io.NopCloser(strings.NewReader("object")), nil
	}))

	rc, err := r.Fetch(context.Background(), Source{URI: "s3://theses/2024/a.pdf"})
	require.NoError(t, err)
	_ = rc.Close()
	assert.Equal(t, "s3://theses/2024/a.pdf", seen.URI)
}

func TestSplitBucketURI(t *testing.T) {
	bucket, key, err := splitBucketURI("s3://theses/2024/a.pdf", "s3")
	require.NoError(t, err)
	assert.Equal(t, "theses", bucket)
	assert.Equal(t, "2024/a.pdf", key)

	_, _, err = splitBucketURI("s3://theses/", "s3")
	require.ErrorIs(t, err, constants.ErrInvalidArgument)

	_, _, err = splitBucketURI("gs://theses/a.pdf", "s3")
	require.ErrorIs(t, err, constants.ErrInvalidArgument)
}
