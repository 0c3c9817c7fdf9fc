package folder

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// treeStore abstracts the persistence layer for folder operations.
type treeStore interface {
	Create(ctx context.Context, name string, parentID, ownerID *uuid.UUID) (Folder, error)
	Get(ctx context.Context, id uuid.UUID) (Folder, error)
	Children(ctx context.Context, parentID uuid.UUID) ([]Folder, error)
	Roots(ctx context.Context, ownerID *uuid.UUID) ([]Folder, error)
	FindChild(ctx context.Context, name string, parentID, ownerID *uuid.UUID) (Folder, error)
	Touch(ctx context.Context, id uuid.UUID) error
	SetParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error
}

// Service implements the folder tree operations.
type Service struct {
	store treeStore
}

// NewService constructs a folder service.
func NewService(store treeStore) *Service {
	return &Service{store: store}
}

// Create validates and inserts a folder, bumping the immediate parent's
// updated_at. Parent ownership is deliberately not cross-checked.
func (s *Service) Create(ctx context.Context, name string, parentID, ownerID *uuid.UUID) (Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Folder{}, ErrNameRequired
	}

	created, err := s.store.Create(ctx, name, parentID, ownerID)
	if err != nil {
		return Folder{}, err
	}

	if parentID != nil {
		if _, err := s.store.Get(ctx, *parentID); err == nil {
			if err := s.store.Touch(ctx, *parentID); err != nil {
				return Folder{}, err
			}
		}
	}
	return created, nil
}

// Get fetches a folder by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Folder, error) {
	return s.store.Get(ctx, id)
}

// Children lists a folder's direct subfolders, name ascending.
func (s *Service) Children(ctx context.Context, parentID uuid.UUID) ([]Folder, error) {
	return s.store.Children(ctx, parentID)
}

// Roots lists an owner's root folders, name ascending.
func (s *Service) Roots(ctx context.Context, ownerID *uuid.UUID) ([]Folder, error) {
	return s.store.Roots(ctx, ownerID)
}

// Touch bumps updated_at on one folder.
func (s *Service) Touch(ctx context.Context, id uuid.UUID) error {
	return s.store.Touch(ctx, id)
}

// Breadcrumbs walks parent links from a folder to its root and returns the
// trail root-first. A repeated id aborts the walk instead of looping.
func (s *Service) Breadcrumbs(ctx context.Context, id uuid.UUID) ([]Crumb, error) {
	var trail []Crumb
	seen := map[uuid.UUID]struct{}{}

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	for {
		if _, dup := seen[current.ID]; dup {
			return nil, ErrCycle
		}
		seen[current.ID] = struct{}{}
		trail = append([]Crumb{{ID: current.ID, Name: current.Name}}, trail...)

		if current.ParentID == nil {
			return trail, nil
		}
		parent, err := s.store.Get(ctx, *current.ParentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return trail, nil
			}
			return nil, err
		}
		current = parent
	}
}

// Move reparents a folder. A move that would place the folder beneath its
// own subtree is rejected with ErrCycle.
func (s *Service) Move(ctx context.Context, id uuid.UUID, newParentID *uuid.UUID) error {
	moved, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	if newParentID != nil {
		ancestor := *newParentID
		for {
			if ancestor == moved.ID {
				return ErrCycle
			}
			parent, err := s.store.Get(ctx, ancestor)
			if err != nil {
				return err
			}
			if parent.ParentID == nil {
				break
			}
			ancestor = *parent.ParentID
		}
	}

	return s.store.SetParent(ctx, id, newParentID)
}
