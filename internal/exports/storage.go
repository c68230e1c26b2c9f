package exports

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"easypcm_backend/platform/config"
)

// DownloadURLTTL is how long a generated export link stays valid.
const DownloadURLTTL = 24 * time.Hour

// Storage holds generated CSV exports in a MinIO bucket and hands out
// presigned download links.
type Storage struct {
	client *minio.Client
	bucket string
}

func NewStorage(cfg config.MinIOConfig) (*Storage, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}
	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return &Storage{client: client, bucket: cfg.GetMinIOBucketExports()}, nil
}

// EnsureBucketExists creates the exports bucket if it doesn't exist. Called
// once at startup.
func (s *Storage) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Put uploads a finished CSV under fileKey and returns a presigned GET URL.
func (s *Storage) Put(ctx context.Context, fileKey string, data []byte) (string, time.Time, error) {
	_, err := s.client.PutObject(ctx, s.bucket, fileKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to upload export %s: %w", fileKey, err)
	}

	expiresAt := time.Now().Add(DownloadURLTTL)
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, fileKey, DownloadURLTTL, url.Values{})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate presigned download URL: %w", err)
	}
	return presigned.String(), expiresAt, nil
}
