package file

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// File is the logical record of an uploaded file. StorageKey is its only
// link to the physical blob and is never reused.
type File struct {
	ID           uuid.UUID  `json:"id"`
	OriginalName string     `json:"original_name"`
	StorageKey   string     `json:"-"`
	Category     string     `json:"category"`
	Size         string     `json:"size"`
	FolderID     *uuid.UUID `json:"folder_id"`
	OwnerID      *uuid.UUID `json:"owner_id"`
	CreatedAt    time.Time  `json:"created_at"`
}

// UploadItem is one file of an upload batch. RelativePath carries the
// client-side directory structure for drag-and-drop folder uploads; when
// empty, Name stands in for it.
type UploadItem struct {
	Name         string
	RelativePath string
	Content      io.Reader
}

// UploadResult reports the outcome for one uploaded file.
type UploadResult struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Status string    `json:"status"`
}
