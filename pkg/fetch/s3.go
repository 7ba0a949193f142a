package fetch

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/divinity/dspace.go/pkg/constants"
)

// S3Config holds configuration for S3.
type S3Config struct {
	Region   string
	Endpoint string // Optional custom endpoint (for MinIO, LocalStack, etc.)
}

// S3 fetches s3://bucket/key sources.
type S3 struct {
	client *s3.Client
}

// NewS3 loads the default AWS credential chain.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clientOpts := func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO/LocalStack
		}
	}

	return &S3{client: s3.NewFromConfig(awsCfg, clientOpts)}, nil
}

// NewS3FromClient wraps an existing client.
func NewS3FromClient(client *s3.Client) *S3 {
	return &S3{client: client}
}

func (s *S3) Fetch(ctx context.Context, src Source) (io.ReadCloser, error) {
	bucket, key, err := splitBucketURI(src.URI, constants.S3Scheme)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s: %w", src.URI, err)
	}
	return out.Body, nil
}
