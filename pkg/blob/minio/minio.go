// Package minio provides a MinIO-backed blob.Store for uploaded
// document files.
package minio

import (
	"context"
	"fmt"
	"io"

	miniolib "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/cognicase/cognicase/pkg/blob"
)

// Internal adapter interface to enable mocking without a real MinIO server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts miniolib.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts miniolib.PutObjectOptions) (miniolib.UploadInfo, error)
	StatObject(ctx context.Context, bucket, key string, opts miniolib.StatObjectOptions) (miniolib.ObjectInfo, error)
	GetObject(ctx context.Context, bucket, key string, opts miniolib.GetObjectOptions) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucket, key string, opts miniolib.RemoveObjectOptions) error
}

// clientWrapper adapts *miniolib.Client to minioAPI.
type clientWrapper struct{ c *miniolib.Client }

func (w clientWrapper) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return w.c.BucketExists(ctx, bucket)
}

func (w clientWrapper) MakeBucket(ctx context.Context, bucket string, opts miniolib.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucket, opts)
}

func (w clientWrapper) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts miniolib.PutObjectOptions) (miniolib.UploadInfo, error) {
	return w.c.PutObject(ctx, bucket, key, r, size, opts)
}

func (w clientWrapper) StatObject(ctx context.Context, bucket, key string, opts miniolib.StatObjectOptions) (miniolib.ObjectInfo, error) {
	return w.c.StatObject(ctx, bucket, key, opts)
}

func (w clientWrapper) GetObject(ctx context.Context, bucket, key string, opts miniolib.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := w.c.GetObject(ctx, bucket, key, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (w clientWrapper) RemoveObject(ctx context.Context, bucket, key string, opts miniolib.RemoveObjectOptions) error {
	return w.c.RemoveObject(ctx, bucket, key, opts)
}

// Config holds MinIO connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Store is a MinIO-backed blob.Store.
type Store struct {
	api    minioAPI
	bucket string
}

// Ensure Store implements blob.Store at compile time.
var _ blob.Store = (*Store)(nil)

// New connects to MinIO and ensures the bucket exists.
func New(ctx context.Context, cfg Config) (*Store, error) {
	client, err := miniolib.New(cfg.Endpoint, &miniolib.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}
	return NewWithAPI(ctx, clientWrapper{c: client}, cfg.Bucket)
}

// NewWithAPI allows injecting a mockable API (used in tests).
func NewWithAPI(ctx context.Context, api minioAPI, bucket string) (*Store, error) {
	s := &Store{api: api, bucket: bucket}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensuring bucket exists: %w", err)
	}
	return s, nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket: %w", err)
	}
	if !exists {
		if err := s.api.MakeBucket(ctx, s.bucket, miniolib.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("creating bucket: %w", err)
		}
	}
	return nil
}

// Upload stores the object under key.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.api.PutObject(ctx, s.bucket, key, r, size, miniolib.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("uploading object: %w", err)
	}
	return nil
}

// Download opens the object for reading. GetObject defers the server
// round trip to the first Read, so existence is checked with a stat
// first; a missing key must surface here, not mid-stream.
func (s *Store) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if _, err := s.api.StatObject(ctx, s.bucket, key, miniolib.StatObjectOptions{}); err != nil {
		if miniolib.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, blob.ErrNotFound
		}
		return nil, fmt.Errorf("checking object: %w", err)
	}
	obj, err := s.api.GetObject(ctx, s.bucket, key, miniolib.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("getting object: %w", err)
	}
	return obj, nil
}

// Delete removes the object.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.api.RemoveObject(ctx, s.bucket, key, miniolib.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("deleting object: %w", err)
	}
	return nil
}
