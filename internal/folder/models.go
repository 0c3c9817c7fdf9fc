package folder

import (
	"time"

	"github.com/google/uuid"
)

// Folder is a node in a user's directory tree. A nil ParentID marks a root
// folder; a nil OwnerID marks an anonymous/shared folder.
type Folder struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_folder_id"`
	OwnerID   *uuid.UUID `json:"owner_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Crumb is one step of a breadcrumb trail, root first.
type Crumb struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
