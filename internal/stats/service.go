// Package stats computes recursive size and usage statistics over folder
// subtrees and whole per-owner forests.
package stats

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/nuvoryx/drive/internal/file"
	"github.com/nuvoryx/drive/internal/filetype"
	"github.com/nuvoryx/drive/internal/folder"
	"github.com/nuvoryx/drive/internal/sizeunit"
)

// folderSource reads the folder tree.
type folderSource interface {
	Children(ctx context.Context, parentID uuid.UUID) ([]folder.Folder, error)
	Roots(ctx context.Context, ownerID *uuid.UUID) ([]folder.Folder, error)
	CountByOwner(ctx context.Context, ownerID *uuid.UUID) (int, error)
}

// fileSource reads file records.
type fileSource interface {
	InFolder(ctx context.Context, folderID uuid.UUID) ([]file.File, error)
	AtRoot(ctx context.Context, ownerID *uuid.UUID) ([]file.File, error)
	ByOwner(ctx context.Context, ownerID *uuid.UUID) ([]file.File, error)
}

// Stats aggregates a subtree or forest.
type Stats struct {
	TotalFolders       int
	TotalFiles         int
	TotalBytes         float64
	MostCommonCategory string
}

// Service walks the tree through store queries. Descent is recursive and
// unmemoized; each call costs O(subtree).
type Service struct {
	folders folderSource
	files   fileSource
}

// NewService constructs an aggregator.
func NewService(folders folderSource, files fileSource) *Service {
	return &Service{folders: folders, files: files}
}

// FolderSizeBytes sums the parsed sizes of every file in the subtree rooted
// at folderID.
func (s *Service) FolderSizeBytes(ctx context.Context, folderID uuid.UUID) (float64, error) {
	total := 0.0

	files, err := s.files.InFolder(ctx, folderID)
	if err != nil {
		return 0, err
	}
	for _, f := range files {
		total += sizeunit.Parse(f.Size)
	}

	children, err := s.folders.Children(ctx, folderID)
	if err != nil {
		return 0, err
	}
	for _, child := range children {
		childTotal, err := s.FolderSizeBytes(ctx, child.ID)
		if err != nil {
			return 0, err
		}
		total += childTotal
	}
	return total, nil
}

// FolderStats walks every descendant of a folder, counting folders and
// files, summing bytes and tallying file categories.
func (s *Service) FolderStats(ctx context.Context, folderID uuid.UUID) (Stats, error) {
	tally := map[string]int{}
	var stats Stats

	if err := s.walk(ctx, folderID, &stats, tally); err != nil {
		return Stats{}, err
	}

	stats.MostCommonCategory = mostCommon(tally)
	return stats, nil
}

func (s *Service) walk(ctx context.Context, folderID uuid.UUID, stats *Stats, tally map[string]int) error {
	files, err := s.files.InFolder(ctx, folderID)
	if err != nil {
		return err
	}
	stats.TotalFiles += len(files)
	for _, f := range files {
		stats.TotalBytes += sizeunit.Parse(f.Size)
		tally[filetype.Classify(f.OriginalName)]++
	}

	children, err := s.folders.Children(ctx, folderID)
	if err != nil {
		return err
	}
	stats.TotalFolders += len(children)
	for _, child := range children {
		if err := s.walk(ctx, child.ID, stats, tally); err != nil {
			return err
		}
	}
	return nil
}

// GlobalStats aggregates an owner's entire forest: every folder, every
// file, and the space used by root folders plus root-level files.
func (s *Service) GlobalStats(ctx context.Context, ownerID *uuid.UUID) (Stats, error) {
	var stats Stats

	count, err := s.folders.CountByOwner(ctx, ownerID)
	if err != nil {
		return Stats{}, err
	}
	stats.TotalFolders = count

	roots, err := s.folders.Roots(ctx, ownerID)
	if err != nil {
		return Stats{}, err
	}
	for _, root := range roots {
		size, err := s.FolderSizeBytes(ctx, root.ID)
		if err != nil {
			return Stats{}, err
		}
		stats.TotalBytes += size
	}

	rootFiles, err := s.files.AtRoot(ctx, ownerID)
	if err != nil {
		return Stats{}, err
	}
	for _, f := range rootFiles {
		stats.TotalBytes += sizeunit.Parse(f.Size)
	}

	all, err := s.files.ByOwner(ctx, ownerID)
	if err != nil {
		return Stats{}, err
	}
	stats.TotalFiles = len(all)

	tally := map[string]int{}
	for _, f := range all {
		tally[filetype.Classify(f.OriginalName)]++
	}
	stats.MostCommonCategory = mostCommon(tally)

	return stats, nil
}

// mostCommon picks the highest-count category. Ties break on the first
// maximum in category-name order, keeping the result deterministic.
func mostCommon(tally map[string]int) string {
	if len(tally) == 0 {
		return "-"
	}

	names := make([]string, 0, len(tally))
	for name := range tally {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	for _, name := range names[1:] {
		if tally[name] > tally[best] {
			best = name
		}
	}
	return best
}

// FormatSpace renders the byte total the way listings display it.
func (st Stats) FormatSpace() string {
	return sizeunit.Format(st.TotalBytes)
}
