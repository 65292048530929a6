package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Jawad-Naqvi/Call-Companion1/pkg/config"
)

// AudioStore wraps MinIO operations for call recordings
type AudioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string // Public URL when MinIO sits behind a reverse proxy
}

// NewAudioStore creates a MinIO-backed audio store and ensures the bucket exists
func NewAudioStore(cfg *config.StorageConfig) (*AudioStore, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	store := &AudioStore{
		client:    minioClient,
		bucket:    cfg.BucketName,
		publicURL: cfg.PublicURL,
	}

	ctx := context.Background()
	if err := store.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return store, nil
}

// ensureBucket creates the recordings bucket if it does not exist.
// The bucket stays private; recordings are only served through the API
// or through presigned URLs.
func (s *AudioStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// UploadAudio stores a recording under the given object key
func (s *AudioStore) UploadAudio(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload audio: %w", err)
	}

	return nil
}

// DownloadAudio opens a recording for reading. The caller must close it.
func (s *AudioStore) DownloadAudio(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download audio: %w", err)
	}

	// GetObject is lazy, so surface missing objects here
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("failed to stat audio object: %w", err)
	}

	return obj, nil
}

// PresignedURL returns a time-limited download URL for a recording
func (s *AudioStore) PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	// When MinIO is behind a reverse proxy the internal endpoint in the
	// presigned URL is not reachable from outside; swap in the public one
	if s.publicURL != "" {
		urlStr := url.String()
		bucketPos := len(url.Scheme) + 3 + len(url.Host)
		if bucketPos < len(urlStr) {
			return s.publicURL + urlStr[bucketPos:], nil
		}
	}

	return url.String(), nil
}

// DeleteAudio removes a recording from the bucket
func (s *AudioStore) DeleteAudio(ctx context.Context, objectKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete audio: %w", err)
	}
	return nil
}

// BucketInfo returns connection and bucket details for health reporting
func (s *AudioStore) BucketInfo(ctx context.Context) (map[string]interface{}, error) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	return map[string]interface{}{
		"bucket":        s.bucket,
		"bucket_exists": exists,
		"endpoint":      s.client.EndpointURL().String(),
	}, nil
}
