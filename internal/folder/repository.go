package folder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repoTimeout = 5 * time.Second

const folderColumns = "id, name, parent_folder_id, owner_id, created_at, updated_at"

// Repository provides access to folder rows.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a folder repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a folder. A uniqueness conflict on (name, parent, owner)
// yields ErrAlreadyExists so callers can re-fetch the winner.
func (r *Repository) Create(ctx context.Context, name string, parentID, ownerID *uuid.UUID) (Folder, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
INSERT INTO folders (name, parent_folder_id, owner_id)
VALUES ($1, $2, $3)
RETURNING ` + folderColumns + `;`

	f, err := scanFolder(r.pool.QueryRow(ctx, query, name, parentID, ownerID))
	if err != nil {
		if isUniqueViolation(err) {
			return Folder{}, ErrAlreadyExists
		}
		return Folder{}, fmt.Errorf("create folder: %w", err)
	}
	return f, nil
}

// Get fetches one folder by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Folder, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `SELECT ` + folderColumns + ` FROM folders WHERE id = $1;`

	f, err := scanFolder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Folder{}, ErrNotFound
		}
		return Folder{}, fmt.Errorf("get folder: %w", err)
	}
	return f, nil
}

// Children lists the direct subfolders of a folder, name ascending.
func (r *Repository) Children(ctx context.Context, parentID uuid.UUID) ([]Folder, error) {
	query := `SELECT ` + folderColumns + ` FROM folders WHERE parent_folder_id = $1 ORDER BY name ASC;`
	return r.list(ctx, query, parentID)
}

// Roots lists an owner's root folders, name ascending. A nil owner selects
// the anonymous/shared roots.
func (r *Repository) Roots(ctx context.Context, ownerID *uuid.UUID) ([]Folder, error) {
	query := `
SELECT ` + folderColumns + `
FROM folders
WHERE parent_folder_id IS NULL AND owner_id IS NOT DISTINCT FROM $1
ORDER BY name ASC;`
	return r.list(ctx, query, ownerID)
}

// FindChild looks up a folder by (name, parent, owner).
func (r *Repository) FindChild(ctx context.Context, name string, parentID, ownerID *uuid.UUID) (Folder, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
SELECT ` + folderColumns + `
FROM folders
WHERE name = $1
  AND parent_folder_id IS NOT DISTINCT FROM $2
  AND owner_id IS NOT DISTINCT FROM $3;`

	f, err := scanFolder(r.pool.QueryRow(ctx, query, name, parentID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Folder{}, ErrNotFound
		}
		return Folder{}, fmt.Errorf("find child folder: %w", err)
	}
	return f, nil
}

// CountByOwner counts every folder in an owner's forest.
func (r *Repository) CountByOwner(ctx context.Context, ownerID *uuid.UUID) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	var count int
	query := `SELECT count(*) FROM folders WHERE owner_id IS NOT DISTINCT FROM $1;`
	if err := r.pool.QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count folders: %w", err)
	}
	return count, nil
}

// Touch bumps updated_at on exactly one folder. No upward propagation.
func (r *Repository) Touch(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	if _, err := r.pool.Exec(ctx, `UPDATE folders SET updated_at = now() WHERE id = $1;`, id); err != nil {
		return fmt.Errorf("touch folder: %w", err)
	}
	return nil
}

// TouchTx is Touch inside a caller-owned transaction.
func (r *Repository) TouchTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	if _, err := tx.Exec(ctx, `UPDATE folders SET updated_at = now() WHERE id = $1;`, id); err != nil {
		return fmt.Errorf("touch folder: %w", err)
	}
	return nil
}

// SetParent reparents a folder.
func (r *Repository) SetParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `UPDATE folders SET parent_folder_id = $2, updated_at = now() WHERE id = $1;`
	tag, err := r.pool.Exec(ctx, query, id, parentID)
	if err != nil {
		return fmt.Errorf("set folder parent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the folder row; descendant folders and files go with it
// through the referential cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	if _, err := r.pool.Exec(ctx, `DELETE FROM folders WHERE id = $1;`, id); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	return nil
}

// DeleteTx is Delete inside a caller-owned transaction.
func (r *Repository) DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM folders WHERE id = $1;`, id); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	return nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Folder, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}
	return folders, nil
}

func scanFolder(row pgx.Row) (Folder, error) {
	var f Folder
	err := row.Scan(&f.ID, &f.Name, &f.ParentID, &f.OwnerID, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
