// Package storage relays uploaded media to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/otomasikan/home72/internal/config"
	"github.com/otomasikan/home72/internal/logger"
)

// Bucket names for uploaded media.
const (
	BucketPaymentProofs = "payment-proofs"
	BucketReportPhotos  = "report-photos"
	BucketIDCards       = "id-cards"
)

// ObjectStore uploads media and returns a public URL for it.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, ext string, data []byte, contentType string) (string, error)
}

// MinioStore is an ObjectStore backed by a MinIO/S3 endpoint.
type MinioStore struct {
	client    *minio.Client
	publicURL string
}

// New connects to the configured object storage endpoint.
func New(cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	publicURL := cfg.StoragePublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.StorageUseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.StorageEndpoint
	}

	return &MinioStore{
		client:    client,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// EnsureBuckets creates the media buckets when they do not exist yet.
func (s *MinioStore) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{BucketPaymentProofs, BucketReportPhotos, BucketIDCards} {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
		}
		if exists {
			continue
		}
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
		logger.Log.Info().Str("bucket", bucket).Msg("Created storage bucket")
	}
	return nil
}

// Upload stores data under a random object name and returns its public URL.
func (s *MinioStore) Upload(ctx context.Context, bucket, ext string, data []byte, contentType string) (string, error) {
	objectName := ObjectName(ext)
	_, err := s.client.PutObject(ctx, bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicURL, bucket, objectName), nil
}

// ObjectName builds a collision-free object name keeping the file extension.
func ObjectName(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if ext == "" {
		ext = ".bin"
	}
	return uuid.NewString() + ext
}

// ExtFromPath returns the extension of a Telegram file path, ".bin" when
// there is none.
func ExtFromPath(filePath string) string {
	ext := path.Ext(filePath)
	if ext == "" {
		return ".bin"
	}
	return ext
}
