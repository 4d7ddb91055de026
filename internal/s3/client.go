package s3

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"image-ranker/internal"
	"image-ranker/internal/model"
)

// Client is the read-only view of a bucket the ranker needs.
type Client interface {
	// List returns the objects directly under prefix, in key order.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	GetBytes(ctx context.Context, key string) ([]byte, error)
}

type ObjectInfo struct {
	Key  string
	Size int64
}

type s3Client struct {
	bucket string
	api    *awss3.Client
	dl     *manager.Downloader
}

func New(ctx context.Context, cfg internal.Config, bucket string) (Client, error) {
	endpoint := cfg.S3Endpoint
	forcePathStyle := endpoint != "" && !strings.Contains(endpoint, "amazonaws.com")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		o.UsePathStyle = forcePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &s3Client{
		bucket: bucket,
		api:    client,
		dl:     manager.NewDownloader(client),
	}, nil
}

func (c *s3Client) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var out []ObjectInfo
	p := awss3.NewListObjectsV2Paginator(c.api, &awss3.ListObjectsV2Input{
		Bucket:    &c.bucket,
		Prefix:    &prefix,
		Delimiter: aws.String("/"),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			var noBucket *types.NoSuchBucket
			if errors.As(err, &noBucket) {
				return nil, fmt.Errorf("bucket %s: %w", c.bucket, model.ErrNotFound)
			}
			return nil, err
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == prefix {
				continue
			}
			out = append(out, ObjectInfo{Key: key, Size: aws.ToInt64(obj.Size)})
		}
	}
	return out, nil
}

func (c *s3Client) GetBytes(ctx context.Context, key string) ([]byte, error) {
	buf := manager.NewWriteAtBuffer(nil)
	_, err := c.dl.Download(ctx, buf, &awss3.GetObjectInput{Bucket: &c.bucket, Key: &key})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("object %s: %w", key, model.ErrNotFound)
		}
		return nil, err
	}
	return buf.Bytes(), nil
}
