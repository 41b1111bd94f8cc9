package export

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Uploader archives rendered exports.
type Uploader interface {
	Upload(ctx context.Context, name string, content []byte, contentType string) (string, error)
}

type MinioOpts func(c *minioConfig)

type minioConfig struct {
	endpoint        string
	bucket          string
	accessKey       string
	secretAccessKey string
	prefix          string
	useSSL          bool
}

func WithEndpoint(endpoint string) MinioOpts {
	return func(c *minioConfig) {
		c.endpoint = endpoint
	}
}

func WithBucket(bucket string) MinioOpts {
	return func(c *minioConfig) {
		c.bucket = bucket
	}
}

func WithCredentials(accessKey, secretAccessKey string) MinioOpts {
	return func(c *minioConfig) {
		c.accessKey = accessKey
		c.secretAccessKey = secretAccessKey
	}
}

func WithPrefix(prefix string) MinioOpts {
	return func(c *minioConfig) {
		c.prefix = prefix
	}
}

func WithSSL(useSSL bool) MinioOpts {
	return func(c *minioConfig) {
		c.useSSL = useSSL
	}
}

func newConfig(opts ...MinioOpts) *minioConfig {
	cfg := &minioConfig{
		bucket: "bom-exports",
		prefix: "exports",
		useSSL: true,
	}

	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

type MinioUploader struct {
	cfg    *minioConfig
	client *minio.Client
}

// Make sure we conform to Uploader interface
var _ Uploader = (*MinioUploader)(nil)

func NewMinioUploader(opts ...MinioOpts) (*MinioUploader, error) {
	cfg := newConfig(opts...)
	if cfg.endpoint == "" {
		return nil, errors.New("minio endpoint is required")
	}

	minioClient, err := minio.New(cfg.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.accessKey, cfg.secretAccessKey, ""),
		Secure: cfg.useSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create minio client")
	}

	return &MinioUploader{cfg: cfg, client: minioClient}, nil
}

// ObjectKey returns the key name is stored under. Keys are partitioned by day.
func (u *MinioUploader) ObjectKey(name string, at time.Time) string {
	return path.Join(u.cfg.prefix, at.UTC().Format("2006/01/02"), name)
}

// Upload stores content and returns the object key.
func (u *MinioUploader) Upload(ctx context.Context, name string, content []byte, contentType string) (string, error) {
	key := u.ObjectKey(name, time.Now())

	info, err := u.client.PutObject(ctx, u.cfg.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to upload %s to bucket %s", key, u.cfg.bucket)
	}

	zap.S().Named("export").Infow("bom export archived", "bucket", info.Bucket, "key", info.Key, "size", info.Size)
	return fmt.Sprintf("%s/%s", u.cfg.bucket, key), nil
}
