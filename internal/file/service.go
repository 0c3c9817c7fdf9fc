package file

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/nuvoryx/drive/internal/blob"
	"github.com/nuvoryx/drive/internal/filetype"
	"github.com/nuvoryx/drive/internal/sizeunit"
)

// fileStore abstracts the persistence layer.
type fileStore interface {
	Create(ctx context.Context, f File) (File, error)
	Get(ctx context.Context, id uuid.UUID) (File, error)
}

// folderTree is the slice of the folder service the uploader needs.
type folderTree interface {
	MaterializePath(ctx context.Context, rootID *uuid.UUID, relativePath string, ownerID *uuid.UUID) (*uuid.UUID, string, error)
	Touch(ctx context.Context, id uuid.UUID) error
}

// Service manages the file upload and download lifecycle.
type Service struct {
	store   fileStore
	folders folderTree
	blobs   blob.Store
}

// NewService constructs a file service.
func NewService(store fileStore, folders folderTree, blobs blob.Store) *Service {
	return &Service{store: store, folders: folders, blobs: blobs}
}

// Upload materializes each item's relative path under the root folder,
// stores the physical blob, and records the logical file. Results carry one
// entry per stored file; the first failure aborts the remainder.
func (s *Service) Upload(ctx context.Context, ownerID uuid.UUID, rootFolderID *uuid.UUID, items []UploadItem) ([]UploadResult, error) {
	if len(items) == 0 {
		return nil, ErrNoFiles
	}

	var results []UploadResult
	for _, item := range items {
		relative := item.RelativePath
		if relative == "" {
			relative = item.Name
		}

		parentID, leaf, err := s.folders.MaterializePath(ctx, rootFolderID, relative, &ownerID)
		if err != nil {
			return results, fmt.Errorf("materialize path %q: %w", relative, err)
		}

		name := sanitizeName(leaf)
		if name == "" {
			name = sanitizeName(item.Name)
		}

		key, err := s.blobs.Save(ctx, item.Content, path.Ext(name))
		if err != nil {
			return results, fmt.Errorf("save blob for %q: %w", name, err)
		}

		size, err := s.blobs.SizeOf(ctx, key)
		if err != nil {
			return results, fmt.Errorf("size blob for %q: %w", name, err)
		}

		stored, err := s.store.Create(ctx, File{
			OriginalName: name,
			StorageKey:   key,
			Category:     filetype.Classify(name),
			Size:         sizeunit.Format(float64(size)),
			FolderID:     parentID,
			OwnerID:      &ownerID,
		})
		if err != nil {
			s.blobs.Delete(ctx, key)
			return results, err
		}

		if parentID != nil {
			if err := s.folders.Touch(ctx, *parentID); err != nil {
				return results, err
			}
		}

		results = append(results, UploadResult{ID: stored.ID, Name: stored.OriginalName, Status: "success"})
	}
	return results, nil
}

// Get fetches a file record.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (File, error) {
	return s.store.Get(ctx, id)
}

// Download returns the record and a reader over its blob. A missing blob
// surfaces blob.ErrNotFound even though the logical row exists; unlike
// archive packing, direct download never skips.
func (s *Service) Download(ctx context.Context, id uuid.UUID) (File, io.ReadCloser, error) {
	f, err := s.store.Get(ctx, id)
	if err != nil {
		return File{}, nil, err
	}

	content, err := s.blobs.Open(ctx, f.StorageKey)
	if err != nil {
		return File{}, nil, err
	}
	return f, content, nil
}

// sanitizeName flattens a client-supplied file name to a bare, safe base
// name. The physical name is never derived from it.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return name
}
