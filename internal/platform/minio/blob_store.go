// Package minio provides the MinIO (S3-compatible) implementation of
// the image blob store.
package minio

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mtereshin/picpost-api/internal/config"
	"github.com/mtereshin/picpost-api/internal/store"
)

// BlobStore implements store.BlobStore on a MinIO bucket.
type BlobStore struct {
	client *minio.Client
	bucket string
}

// New builds a MinIO client from configuration and ensures the target
// bucket exists.
func New(ctx context.Context, cfg config.StorageConfig) (*BlobStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &BlobStore{client: client, bucket: cfg.Bucket}, nil
}

var _ store.BlobStore = (*BlobStore)(nil)

// Save implements store.BlobStore.Save.
func (s *BlobStore) Save(ctx context.Context, objectPath string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectPath,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to store object %s: %w", objectPath, err)
	}
	return objectPath, nil
}
