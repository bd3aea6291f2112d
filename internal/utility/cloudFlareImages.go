package utility

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// R2Bucket stores objects in a Cloudflare R2 bucket through its S3
// compatible API.
type R2Bucket struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

type R2Config struct {
	Endpoint  string
	Region    string // R2 expects "auto"
	Bucket    string
	AccessKey string
	SecretKey string
}

func NewR2Bucket(ctx context.Context, conf R2Config) (*R2Bucket, error) {
	region := conf.Region
	if region == "" {
		region = "auto"
	}
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(conf.AccessKey, conf.SecretKey, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, errors.Wrap(err, "load r2 config")
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(conf.Endpoint)
		o.UsePathStyle = true
	})
	return &R2Bucket{client: client, bucket: conf.Bucket, endpoint: strings.TrimRight(conf.Endpoint, "/")}, nil
}

// UploadObject puts body under key and returns the path style object URL.
func (b *R2Bucket) UploadObject(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrapf(err, "put r2 object %s", key)
	}
	return b.endpoint + "/" + b.bucket + "/" + key, nil
}

func (b *R2Bucket) DeleteObject(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	return errors.Wrapf(err, "delete r2 object %s", key)
}
