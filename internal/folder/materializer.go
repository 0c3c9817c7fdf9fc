package folder

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// MaterializePath resolves a client-supplied relative path (as sent by
// drag-and-drop folder uploads) under a root folder. Every path segment but
// the last is a folder to create-or-reuse in order; the last is returned as
// the leaf file name. Each created folder is visible before the next segment
// resolves, so sibling uploads sharing an ancestor converge on one row.
func (s *Service) MaterializePath(ctx context.Context, rootID *uuid.UUID, relativePath string, ownerID *uuid.UUID) (*uuid.UUID, string, error) {
	cleaned := strings.Trim(strings.ReplaceAll(relativePath, "\\", "/"), "/")

	var segments []string
	for _, seg := range strings.Split(cleaned, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return rootID, "", nil
	}

	parentID := rootID
	for _, name := range segments[:len(segments)-1] {
		f, err := s.lookupOrCreate(ctx, name, parentID, ownerID)
		if err != nil {
			return nil, "", err
		}
		id := f.ID
		parentID = &id
	}
	return parentID, segments[len(segments)-1], nil
}

// lookupOrCreate finds a folder by (name, parent, owner) or creates it. Two
// uploads racing on the same segment resolve through the uniqueness
// constraint: the loser re-fetches the winner's row.
func (s *Service) lookupOrCreate(ctx context.Context, name string, parentID, ownerID *uuid.UUID) (Folder, error) {
	existing, err := s.store.FindChild(ctx, name, parentID, ownerID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Folder{}, err
	}

	created, err := s.store.Create(ctx, name, parentID, ownerID)
	if err == nil {
		return created, nil
	}
	if errors.Is(err, ErrAlreadyExists) {
		return s.store.FindChild(ctx, name, parentID, ownerID)
	}
	return Folder{}, err
}
