package models

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divinity/dspace.go/pkg/constants"
	"github.com/divinity/dspace.go/pkg/fetch"
)

func TestWithLocalCopyInline(t *testing.T) {
	f := NewInlineFile("report.pdf", []byte("%PDF"))

	var seen string
	err := f.WithLocalCopy(context.Background(), nil, func(path string) error {
		seen = path
		assert.True(t, f.IsDownloaded())
		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "%PDF", string(b))
		return nil
	})
	require.NoError(t, err)
	assert.NotEmpty(t, seen)
	assert.False(t, f.IsDownloaded())
	_, err = os.Stat(seen)
	assert.True(t, os.IsNotExist(err))
}

func TestWithLocalCopyFetchesAndCleansUpOnError(t *testing.T) {
	var got fetch.Source
	fetcher := fetch.FetcherFunc(func(_ context.Context, src fetch.Source) (io.ReadCloser, error) {
		got = src
		return io.NopCloser(strings.NewReader("remote")), nil
	})

	f := NewFile("data.csv", "https://files.example.org/data.csv")
	f.Username, f.Password = "u", "p"

	boom := errors.New("upload failed")
	var path string
	err := f.WithLocalCopy(context.Background(), fetcher, func(p string) error {
		path = p
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "https://files.example.org/data.csv", got.URI)
	assert.Equal(t, "u", got.Username)
	assert.False(t, f.IsDownloaded())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloadWithoutContent(t *testing.T) {
	err := (&File{Filename: "empty"}).Download(context.Background(), nil)
	assert.ErrorIs(t, err, constants.ErrNoFileContent)

	err = NewFile("a", "s3://bucket/a").Download(context.Background(), nil)
	assert.ErrorIs(t, err, constants.ErrNoFetcher)
}

func TestFetchErrorIsWrapped(t *testing.T) {
	denied := errors.New("denied")
	fetcher := fetch.FetcherFunc(func(context.Context, fetch.Source) (io.ReadCloser, error) {
		return nil, denied
	})
	err := NewFile("a", "gs://b/a").Download(context.Background(), fetcher)
	assert.ErrorIs(t, err, denied)
	assert.Contains(t, err.Error(), `"a"`)
}
