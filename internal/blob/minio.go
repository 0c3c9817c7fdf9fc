package blob

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// MinIOStore keeps blobs as objects in a single bucket. It honors the same
// contract as DiskStore and is selected through configuration.
type MinIOStore struct {
	client *minio.Client
	bucket string
	log    *zap.Logger
}

// NewMinIOStore wraps an existing MinIO client and bucket.
func NewMinIOStore(client *minio.Client, bucket string, log *zap.Logger) *MinIOStore {
	return &MinIOStore{client: client, bucket: bucket, log: log}
}

// Save uploads content under a generated key.
func (s *MinIOStore) Save(ctx context.Context, content io.Reader, extHint string) (string, error) {
	key := NewKey(extHint)
	if _, err := s.client.PutObject(ctx, s.bucket, key, content, -1, minio.PutObjectOptions{}); err != nil {
		return "", fmt.Errorf("put blob %s: %w", key, err)
	}
	return key, nil
}

// Delete removes the object. Like the disk store, failures only log.
func (s *MinIOStore) Delete(ctx context.Context, key string) {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.log.Error("blob delete failed", zap.String("key", key), zap.Error(err))
	}
}

// SizeOf stats the object.
func (s *MinIOStore) SizeOf(ctx context.Context, key string) (int64, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isMissingObject(err) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("stat blob %s: %w", key, err)
	}
	return info.Size, nil
}

// Open fetches the object and verifies it exists before handing the reader
// to the caller.
func (s *MinIOStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if isMissingObject(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat blob %s: %w", key, err)
	}
	return obj, nil
}

func isMissingObject(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}
