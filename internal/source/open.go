package source

import (
	"context"
	"fmt"

	"image-ranker/internal"
	"image-ranker/internal/s3"
)

// FromConfig returns the source for cfg.Folder.
func FromConfig(ctx context.Context, cfg internal.Config) (Source, error) {
	if !cfg.IsS3() {
		return NewDir(cfg.Folder), nil
	}
	bucket, prefix, ok := cfg.S3Location()
	if !ok {
		return nil, fmt.Errorf("invalid s3 folder %q", cfg.Folder)
	}
	client, err := s3.New(ctx, cfg, bucket)
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	return NewBucket(client, bucket, prefix), nil
}
