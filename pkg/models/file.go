package models

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/divinity/dspace.go/internal/scratch"
	"github.com/divinity/dspace.go/pkg/constants"
	"github.com/divinity/dspace.go/pkg/fetch"
)

// File is a bitstream to upload. Its content is either inline or fetched
// from URI when the upload happens.
type File struct {
	// ID is set once the file exists on the server.
	ID       string
	Filename string
	MimeType string

	URI      string
	Username string
	Password string

	Content []byte

	Policies []Policy

	tempPath string
}

// NewFile describes a file whose content lives at uri.
func NewFile(filename, uri string) *File {
	return &File{Filename: filename, URI: uri}
}

// NewInlineFile describes a file whose content is already in memory.
func NewInlineFile(filename string, content []byte) *File {
	return &File{Filename: filename, Content: content}
}

func (f *File) AddPolicy(p Policy) *File {
	f.Policies = append(f.Policies, p)
	return f
}

// Source returns where Fetch should read the content from.
func (f *File) Source() fetch.Source {
	return fetch.Source{URI: f.URI, Username: f.Username, Password: f.Password}
}

// IsDownloaded reports whether a local copy currently exists.
func (f *File) IsDownloaded() bool {
	return scratch.Exists(f.tempPath)
}

// TempPath is the local copy made by Download, or "".
func (f *File) TempPath() string {
	return f.tempPath
}

// Download writes the content to a temporary file. Inline content is used when
// present, otherwise the source is read through fetcher.
func (f *File) Download(ctx context.Context, fetcher fetch.Fetcher) error {
	if f.IsDownloaded() {
		return nil
	}

	var r io.Reader
	switch {
	case len(f.Content) > 0:
		r = bytes.NewReader(f.Content)
	case f.URI != "":
		if fetcher == nil {
			return fmt.Errorf("download %q: %w", f.Filename, constants.ErrNoFetcher)
		}
		rc, err := fetcher.Fetch(ctx, f.Source())
		if err != nil {
			return fmt.Errorf("download %q: %w", f.Filename, err)
		}
		defer rc.Close()
		r = rc
	default:
		return fmt.Errorf("download %q: %w", f.Filename, constants.ErrNoFileContent)
	}

	path, err := scratch.Write(f.Filename, r)
	if err != nil {
		return fmt.Errorf("download %q: %w", f.Filename, err)
	}
	f.tempPath = path
	return nil
}

// DeleteTempFile removes the local copy, if any.
func (f *File) DeleteTempFile() error {
	if err := scratch.Remove(f.tempPath); err != nil {
		return err
	}
	f.tempPath = ""
	return nil
}

// WithLocalCopy downloads the file, runs fn with the local path and removes
// the copy afterwards whatever fn returns.
func (f *File) WithLocalCopy(ctx context.Context, fetcher fetch.Fetcher, fn func(path string) error) (err error) {
	if err = f.Download(ctx, fetcher); err != nil {
		return err
	}
	defer func() {
		if rerr := f.DeleteTempFile(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn(f.tempPath)
}
