// Package storage uploads product images to an S3-compatible bucket and
// hands back the public URL stored on the product record.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"shopdesk/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ImageUploader stores an image and returns its publicly reachable URL.
type ImageUploader interface {
	Upload(ctx context.Context, filename, contentType string, reader io.Reader, size int64) (string, error)
}

type minioUploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewImageUploader connects to the configured S3-compatible endpoint.
func NewImageUploader(cfg config.StorageConfig) (ImageUploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &minioUploader{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload stores the image under a collision-free object name derived from
// the original filename and returns its public URL.
func (u *minioUploader) Upload(ctx context.Context, filename, contentType string, reader io.Reader, size int64) (string, error) {
	objectName := uuid.New().String() + path.Ext(filename)

	_, err := u.client.PutObject(ctx, u.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return u.publicURL + "/" + objectName, nil
}
