// Package storage uploads generated report files to S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/kube-rca/triage-bot/internal/config"
	"github.com/kube-rca/triage-bot/internal/model"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Store struct {
	client     *minio.Client
	bucketName string
	region     string
	now        func() time.Time
}

// New connects to MinIO and creates the bucket if it does not exist yet.
func New(ctx context.Context, cfg config.StorageConfig) (*Store, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := cli.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.BucketName, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.BucketName, err)
		}
	}

	return &Store{client: cli, bucketName: cfg.BucketName, region: cfg.Region, now: time.Now}, nil
}

// Upload puts the HTML (and JSON, when present) report under one run prefix
// and returns the URL of the HTML object.
func (s *Store) Upload(ctx context.Context, paths model.ReportPaths) (string, error) {
	prefix := runPrefix(s.now(), uuid.NewString())

	htmlKey := path.Join(prefix, filepath.Base(paths.HTMLPath))
	if err := s.put(ctx, paths.HTMLPath, htmlKey); err != nil {
		return "", err
	}
	if paths.JSONPath != "" {
		if err := s.put(ctx, paths.JSONPath, path.Join(prefix, filepath.Base(paths.JSONPath))); err != nil {
			return "", err
		}
	}

	endpoint := s.client.EndpointURL()
	return fmt.Sprintf("%s://%s/%s/%s", endpoint.Scheme, endpoint.Host, s.bucketName, htmlKey), nil
}

func (s *Store) put(ctx context.Context, localPath, key string) error {
	_, err := s.client.FPutObject(ctx, s.bucketName, key, localPath, minio.PutObjectOptions{
		ContentType: contentType(localPath),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", localPath, err)
	}
	return nil
}

// runPrefix - reports/2026/03/01/<id>
func runPrefix(t time.Time, id string) string {
	return path.Join("reports", t.UTC().Format("2006/01/02"), id)
}

func contentType(localPath string) string {
	switch filepath.Ext(localPath) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
