package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/legalintel/legal-intel/internal/common"
)

// ObjectStore abstracts the document blob store so the pipeline and tests
// do not depend on MinIO directly.
type ObjectStore interface {
	Get(ctx context.Context, objectPath string) ([]byte, error)
	Put(ctx context.Context, objectPath string, data []byte, contentType string) error
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStore is the MinIO-backed ObjectStore.
type MinioStore struct {
	client *minio.Client
	bucket string
	log    *slog.Logger
}

func NewMinioStore(ctx context.Context, cfg Config, log *slog.Logger) (*MinioStore, error) {
	if log == nil {
		log = slog.Default()
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, common.WrapError(err, "create minio client")
	}

	s := &MinioStore{client: client, bucket: cfg.Bucket, log: log}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	log.Info("object store ready", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)
	return s, nil
}

func (s *MinioStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
		}
		s.log.Info("bucket created", "bucket", s.bucket)
	}
	return nil
}

func (s *MinioStore) Get(ctx context.Context, objectPath string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	return data, nil
}

func (s *MinioStore) Put(ctx context.Context, objectPath string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectPath,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	s.log.Info("object stored", "path", objectPath, "size", len(data))
	return nil
}
