package media_storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-admin/internal/application/service"
	"github.com/khoahotran/portfolio-admin/internal/config"
	"github.com/khoahotran/portfolio-admin/internal/domain/media"
	"github.com/khoahotran/portfolio-admin/pkg/apperror"
	"github.com/khoahotran/portfolio-admin/pkg/logger"
)

// s3Store keeps media buckets as key prefixes of one S3 (or R2) bucket.
type s3Store struct {
	client *s3.Client
	bucket string
	logger logger.Logger
}

func NewS3Store(cfg config.Config, log logger.Logger) (service.FileStore, error) {
	if cfg.S3.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket has not config")
	}

	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, ""),
		Region:      cfg.S3.Region,
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Info("Initialized S3 media storage", zap.String("bucket", cfg.S3.Bucket))
	return &s3Store{client: client, bucket: cfg.S3.Bucket, logger: log}, nil
}

func objectKey(publicPath string) (string, error) {
	bucket, name, err := media.ParsePublicPath(publicPath)
	if err != nil {
		return "", err
	}
	return string(bucket) + "/" + name, nil
}

// EnsureBuckets only checks the bucket is reachable; prefixes need no setup.
func (s *s3Store) EnsureBuckets(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("head bucket %q: %w", s.bucket, err)
	}
	return nil
}

func (s *s3Store) Save(ctx context.Context, bucket media.Bucket, name string, body io.Reader) (string, error) {
	publicPath := media.PublicPath(bucket, name)
	key, err := objectKey(publicPath)
	if err != nil {
		return "", apperror.NewInternal("refusing to store file outside media buckets", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return "", apperror.NewInternal("failed to upload media object", err)
	}
	return publicPath, nil
}

func (s *s3Store) Open(ctx context.Context, publicPath string) (io.ReadCloser, error) {
	key, err := objectKey(publicPath)
	if err != nil {
		return nil, apperror.NewInvalidInput("invalid media path", err)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, apperror.NewNotFound("media file", publicPath)
		}
		return nil, apperror.NewInternal("failed to get media object", err)
	}
	return out.Body, nil
}

func (s *s3Store) Remove(ctx context.Context, publicPath string) error {
	key, err := objectKey(publicPath)
	if err != nil {
		return err
	}

	// DeleteObject succeeds for keys that do not exist.
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *s3types.NotFound
		if errors.As(err, &nf) {
			return nil
		}
		return apperror.NewInternal("failed to delete media object", err)
	}
	s.logger.Debug("Deleted media object", zap.String("key", key))
	return nil
}
