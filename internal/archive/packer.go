// Package archive packs folder subtrees and ad-hoc selections into zip
// streams, preserving relative directory structure.
package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/nuvoryx/drive/internal/blob"
	"github.com/nuvoryx/drive/internal/file"
	"github.com/nuvoryx/drive/internal/folder"
)

// folderSource reads the folder tree.
type folderSource interface {
	Get(ctx context.Context, id uuid.UUID) (folder.Folder, error)
	Children(ctx context.Context, parentID uuid.UUID) ([]folder.Folder, error)
}

// fileSource reads file records.
type fileSource interface {
	Get(ctx context.Context, id uuid.UUID) (file.File, error)
	InFolder(ctx context.Context, folderID uuid.UUID) ([]file.File, error)
}

// Packer streams subtrees into zip archives.
type Packer struct {
	folders folderSource
	files   fileSource
	blobs   blob.Store
}

// NewPacker constructs an archiver.
func NewPacker(folders folderSource, files fileSource, blobs blob.Store) *Packer {
	return &Packer{folders: folders, files: files, blobs: blobs}
}

// PackFolder writes a folder's subtree under basePath/<folder name>/...,
// recursing into subfolders. Files whose blob is gone are skipped; archive
// export is best-effort about physical state, unlike direct download.
// Duplicate entry names are not de-duplicated.
func (p *Packer) PackFolder(ctx context.Context, zw *zip.Writer, f folder.Folder, basePath string) error {
	dir := f.Name
	if basePath != "" {
		dir = path.Join(basePath, f.Name)
	}

	files, err := p.files.InFolder(ctx, f.ID)
	if err != nil {
		return err
	}
	for _, record := range files {
		if err := p.addFile(ctx, zw, record, path.Join(dir, record.OriginalName)); err != nil {
			return err
		}
	}

	children, err := p.folders.Children(ctx, f.ID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := p.PackFolder(ctx, zw, child, dir); err != nil {
			return err
		}
	}
	return nil
}

// PackSelection writes an ad-hoc multi-select export: chosen files land
// flat at their bare original names, chosen folders keep their own nesting
// rooted at the folder's name. Items not owned by ownerID are skipped.
func (p *Packer) PackSelection(ctx context.Context, zw *zip.Writer, fileIDs, folderIDs []uuid.UUID, ownerID uuid.UUID) error {
	for _, id := range fileIDs {
		record, err := p.files.Get(ctx, id)
		if err != nil {
			if errors.Is(err, file.ErrNotFound) {
				continue
			}
			return err
		}
		if record.OwnerID == nil || *record.OwnerID != ownerID {
			continue
		}
		if err := p.addFile(ctx, zw, record, record.OriginalName); err != nil {
			return err
		}
	}

	for _, id := range folderIDs {
		f, err := p.folders.Get(ctx, id)
		if err != nil {
			if errors.Is(err, folder.ErrNotFound) {
				continue
			}
			return err
		}
		if f.OwnerID == nil || *f.OwnerID != ownerID {
			continue
		}
		if err := p.PackFolder(ctx, zw, f, ""); err != nil {
			return err
		}
	}
	return nil
}

func (p *Packer) addFile(ctx context.Context, zw *zip.Writer, record file.File, entryName string) error {
	content, err := p.blobs.Open(ctx, record.StorageKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("open blob %s: %w", record.StorageKey, err)
	}
	defer content.Close()

	entry, err := zw.Create(entryName)
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", entryName, err)
	}
	if _, err := io.Copy(entry, content); err != nil {
		return fmt.Errorf("write zip entry %s: %w", entryName, err)
	}
	return nil
}
