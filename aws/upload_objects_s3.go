package s3

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
)

type AWSConfig struct {
	AccessKeyID     string
	AccessKeySecret string
	Region          string
}

// CreateSession uses static credentials when both keys are set and falls
// back to the default provider chain otherwise.
func CreateSession(conf AWSConfig) (*session.Session, error) {
	cfg := aws.NewConfig().WithRegion(conf.Region)
	if conf.AccessKeyID != "" && conf.AccessKeySecret != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(conf.AccessKeyID, conf.AccessKeySecret, ""))
	}
	sess, err := session.NewSession(cfg)
	return sess, errors.Wrap(err, "aws session")
}

type Bucket struct {
	name     string
	client   *s3.S3
	uploader *s3manager.Uploader
}

func NewBucket(sess *session.Session, name string) *Bucket {
	return &Bucket{name: name, client: s3.New(sess), uploader: s3manager.NewUploader(sess)}
}

// UploadObject streams body to key and returns the object location.
func (b *Bucket) UploadObject(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	out, err := b.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrapf(err, "upload s3://%s/%s", b.name, key)
	}
	return out.Location, nil
}

func (b *Bucket) DeleteObject(ctx context.Context, key string) error {
	_, err := b.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	return errors.Wrapf(err, "delete s3://%s/%s", b.name, key)
}
