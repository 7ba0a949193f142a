package fetch

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/divinity/dspace.go/pkg/constants"
)

// GCS fetches gs://bucket/object sources.
type GCS struct {
	client *storage.Client
}

// NewGCS creates a client using application default credentials.
func NewGCS(ctx context.Context) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCS{client: client}, nil
}

func (g *GCS) Fetch(ctx context.Context, src Source) (io.ReadCloser, error) {
	bucket, object, err := splitBucketURI(src.URI, constants.GCSScheme)
	if err != nil {
		return nil, err
	}

	r, err := g.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs read %s: %w", src.URI, err)
	}
	return r, nil
}

// Close closes the underlying client.
func (g *GCS) Close() error {
	return g.client.Close()
}
