// Package cleanup coordinates physical blob removal with logical row
// deletion, for single items, whole subtrees, and multi-select batches.
package cleanup

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nuvoryx/drive/internal/blob"
	"github.com/nuvoryx/drive/internal/file"
	"github.com/nuvoryx/drive/internal/folder"
	"go.uber.org/zap"
)

// folderStore reads and mutates folder rows.
type folderStore interface {
	Get(ctx context.Context, id uuid.UUID) (folder.Folder, error)
	Children(ctx context.Context, parentID uuid.UUID) ([]folder.Folder, error)
	Touch(ctx context.Context, id uuid.UUID) error
	TouchTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// fileStore reads and mutates file rows.
type fileStore interface {
	Get(ctx context.Context, id uuid.UUID) (file.File, error)
	InFolder(ctx context.Context, folderID uuid.UUID) ([]file.File, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// txBeginner starts a transaction; satisfied by *pgxpool.Pool.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ErrNoItems signals a batch request without any ids.
var ErrNoItems = errors.New("no items provided")

// Coordinator removes physical blobs before or alongside logical deletion.
// Blob removal is eager and irreversible: it happens outside the row
// transaction and is never rolled back.
type Coordinator struct {
	folders folderStore
	files   fileStore
	blobs   blob.Store
	db      txBeginner
	log     *zap.Logger
}

// NewCoordinator wires a deletion coordinator.
func NewCoordinator(folders folderStore, files fileStore, blobs blob.Store, db txBeginner, log *zap.Logger) *Coordinator {
	return &Coordinator{folders: folders, files: files, blobs: blobs, db: db, log: log}
}

// DeleteFile removes one file's blob and row, then touches its parent.
func (c *Coordinator) DeleteFile(ctx context.Context, id uuid.UUID) error {
	record, err := c.files.Get(ctx, id)
	if err != nil {
		return err
	}

	c.blobs.Delete(ctx, record.StorageKey)

	if err := c.files.Delete(ctx, id); err != nil {
		return err
	}
	if record.FolderID != nil {
		if err := c.folders.Touch(ctx, *record.FolderID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteFolder cascade-deletes one folder and touches its former parent.
func (c *Coordinator) DeleteFolder(ctx context.Context, id uuid.UUID) error {
	f, err := c.folders.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := c.DeleteFolderCascade(ctx, f); err != nil {
		return err
	}
	if f.ParentID != nil {
		if err := c.folders.Touch(ctx, *f.ParentID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteFolderCascade purges every blob beneath the folder depth-first,
// then deletes the folder row; descendant rows go with it through the
// referential cascade.
func (c *Coordinator) DeleteFolderCascade(ctx context.Context, f folder.Folder) error {
	if err := c.purgeBlobs(ctx, f.ID); err != nil {
		return err
	}
	return c.folders.Delete(ctx, f.ID)
}

// purgeBlobs walks the subtree post-order removing physical blobs.
func (c *Coordinator) purgeBlobs(ctx context.Context, folderID uuid.UUID) error {
	children, err := c.folders.Children(ctx, folderID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := c.purgeBlobs(ctx, child.ID); err != nil {
			return err
		}
	}

	files, err := c.files.InFolder(ctx, folderID)
	if err != nil {
		return err
	}
	for _, record := range files {
		c.blobs.Delete(ctx, record.StorageKey)
	}
	return nil
}

// DeleteBatch removes a selection of files and folders owned by ownerID.
// Items not owned are skipped. Every row deletion and every distinct parent
// touch commits in one transaction; a commit failure fails the whole batch
// while already-purged blobs stay gone.
func (c *Coordinator) DeleteBatch(ctx context.Context, fileIDs, folderIDs []uuid.UUID, ownerID uuid.UUID) (int, error) {
	if len(fileIDs) == 0 && len(folderIDs) == 0 {
		return 0, ErrNoItems
	}

	deleted := 0
	parents := map[uuid.UUID]struct{}{}

	var ownedFiles []file.File
	for _, id := range fileIDs {
		record, err := c.files.Get(ctx, id)
		if err != nil {
			if errors.Is(err, file.ErrNotFound) {
				continue
			}
			return 0, err
		}
		if record.OwnerID == nil || *record.OwnerID != ownerID {
			continue
		}

		c.blobs.Delete(ctx, record.StorageKey)
		if record.FolderID != nil {
			parents[*record.FolderID] = struct{}{}
		}
		ownedFiles = append(ownedFiles, record)
		deleted++
	}

	var ownedFolders []folder.Folder
	for _, id := range folderIDs {
		f, err := c.folders.Get(ctx, id)
		if err != nil {
			if errors.Is(err, folder.ErrNotFound) {
				continue
			}
			return 0, err
		}
		if f.OwnerID == nil || *f.OwnerID != ownerID {
			continue
		}

		if err := c.purgeBlobs(ctx, f.ID); err != nil {
			return 0, err
		}
		if f.ParentID != nil {
			parents[*f.ParentID] = struct{}{}
		}
		ownedFolders = append(ownedFolders, f)
		deleted++
	}

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin batch delete: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, record := range ownedFiles {
		if err := c.files.DeleteTx(ctx, tx, record.ID); err != nil {
			return 0, err
		}
	}
	for _, f := range ownedFolders {
		if err := c.folders.DeleteTx(ctx, tx, f.ID); err != nil {
			return 0, err
		}
	}
	for parentID := range parents {
		if err := c.folders.TouchTx(ctx, tx, parentID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		c.log.Error("batch delete commit failed", zap.Error(err))
		return 0, fmt.Errorf("commit batch delete: %w", err)
	}
	return deleted, nil
}
