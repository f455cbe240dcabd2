// Package storage wraps the R2 bucket holding the pre-built datasets.
// Credentials never leave this package; callers only ever see
// presigned URLs or object streams.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds the S3-compatible connection settings for the R2 bucket.
type Config struct {
	Endpoint        string // e.g. "<account>.r2.cloudflarestorage.com"
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
}

// Client wraps a MinIO client scoped to one bucket.
type Client struct {
	mc     *minio.Client
	bucket string
}

// NewClient creates a storage client. R2 speaks the S3 API, so the
// plain S3 client works against it with region "auto".
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage: endpoint not configured")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("storage: minio client: %w", err)
	}
	return &Client{mc: mc, bucket: cfg.Bucket}, nil
}

// PresignedGet returns a time-limited GET URL for one object key.
func (c *Client) PresignedGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := c.mc.PresignedGetObject(ctx, c.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("storage: presign %s: %w", key, err)
	}
	return u.String(), nil
}

// GetObject streams one object from the bucket. The caller owns the
// returned reader and must close it.
func (c *Client) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := c.mc.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("storage: get %s: %w", key, err)
	}
	// GetObject is lazy; Stat forces the first request so a missing
	// key surfaces here instead of on the first Read.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

// IsNotExist reports whether err means the requested object is absent.
func IsNotExist(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
