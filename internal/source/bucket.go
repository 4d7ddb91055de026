package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"

	"image-ranker/internal/model"
	"image-ranker/internal/s3"
)

// Bucket is the set of objects directly under an S3 key prefix.
type Bucket struct {
	client s3.Client
	bucket string
	prefix string
}

// NewBucket expects prefix to be empty or to end with "/".
func NewBucket(client s3.Client, bucket, prefix string) *Bucket {
	return &Bucket{client: client, bucket: bucket, prefix: prefix}
}

func (b *Bucket) Folder() string {
	return "s3://" + b.bucket + "/" + b.prefix
}

// List fails with ErrNotFound when nothing lives under the prefix, since S3
// has no empty folders.
func (b *Bucket) List(ctx context.Context) ([]string, error) {
	objs, err := b.client.List(ctx, b.prefix)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", b.Folder(), err)
	}
	if len(objs) == 0 {
		return nil, fmt.Errorf("folder %s: %w", b.Folder(), model.ErrNotFound)
	}
	return lo.FilterMap(objs, func(o s3.ObjectInfo, _ int) (string, bool) {
		name := strings.TrimPrefix(o.Key, b.prefix)
		return name, isBare(name)
	}), nil
}

func (b *Bucket) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := b.key(name)
	data, err := b.client.GetBytes(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *Bucket) Locate(ref string) (string, bool) {
	key := strings.TrimPrefix(ref, "s3://"+b.bucket+"/")
	if isBare(key) {
		return key, true
	}
	if rest, ok := strings.CutPrefix(key, b.prefix); ok && isBare(rest) {
		return rest, true
	}
	return key, false
}

func (b *Bucket) key(name string) string {
	if isBare(name) {
		return b.prefix + name
	}
	return strings.TrimPrefix(name, "s3://"+b.bucket+"/")
}
