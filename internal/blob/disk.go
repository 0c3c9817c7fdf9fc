package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// DiskStore keeps blobs as a flat namespace of opaque-named files under a
// single root directory.
type DiskStore struct {
	root string
	log  *zap.Logger
}

// NewDiskStore prepares the root directory and returns a disk-backed store.
func NewDiskStore(root string, log *zap.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &DiskStore{root: root, log: log}, nil
}

// Save streams content into a new file named by a generated key.
func (s *DiskStore) Save(_ context.Context, content io.Reader, extHint string) (string, error) {
	key := NewKey(extHint)

	f, err := os.Create(filepath.Join(s.root, key))
	if err != nil {
		return "", fmt.Errorf("create blob %s: %w", key, err)
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write blob %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close blob %s: %w", key, err)
	}
	return key, nil
}

// Delete removes the blob if present. Failures are logged and swallowed;
// logical deletion must proceed regardless.
func (s *DiskStore) Delete(_ context.Context, key string) {
	path, err := s.path(key)
	if err != nil {
		s.log.Warn("blob delete rejected", zap.String("key", key), zap.Error(err))
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Error("blob delete failed", zap.String("key", key), zap.Error(err))
	}
}

// SizeOf stats the blob file.
func (s *DiskStore) SizeOf(_ context.Context, key string) (int64, error) {
	path, err := s.path(key)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("stat blob %s: %w", key, err)
	}
	return info.Size(), nil
}

// Open returns a reader over the blob, or ErrNotFound when the physical
// file is gone while the logical row survived.
func (s *DiskStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open blob %s: %w", key, err)
	}
	return f, nil
}

func (s *DiskStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.root, key), nil
}
