package file

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repoTimeout = 5 * time.Second

const fileColumns = "id, original_name, storage_key, category, size, folder_id, owner_id, created_at"

// Repository provides access to file rows.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a file repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a file record.
func (r *Repository) Create(ctx context.Context, f File) (File, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `
INSERT INTO files (original_name, storage_key, category, size, folder_id, owner_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + fileColumns + `;`

	stored, err := scanFile(r.pool.QueryRow(ctx, query,
		f.OriginalName, f.StorageKey, f.Category, f.Size, f.FolderID, f.OwnerID))
	if err != nil {
		return File{}, fmt.Errorf("create file: %w", err)
	}
	return stored, nil
}

// Get fetches one file by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (File, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1;`

	f, err := scanFile(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return File{}, ErrNotFound
		}
		return File{}, fmt.Errorf("get file: %w", err)
	}
	return f, nil
}

// InFolder lists the direct files of a folder, original name ascending.
func (r *Repository) InFolder(ctx context.Context, folderID uuid.UUID) ([]File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE folder_id = $1 ORDER BY original_name ASC;`
	return r.list(ctx, query, folderID)
}

// AtRoot lists an owner's files that sit outside any folder, original name
// ascending. A nil owner selects the anonymous/shared root files.
func (r *Repository) AtRoot(ctx context.Context, ownerID *uuid.UUID) ([]File, error) {
	query := `
SELECT ` + fileColumns + `
FROM files
WHERE folder_id IS NULL AND owner_id IS NOT DISTINCT FROM $1
ORDER BY original_name ASC;`
	return r.list(ctx, query, ownerID)
}

// ByOwner lists every file of an owner across the whole forest.
func (r *Repository) ByOwner(ctx context.Context, ownerID *uuid.UUID) ([]File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE owner_id IS NOT DISTINCT FROM $1;`
	return r.list(ctx, query, ownerID)
}

// Delete removes a file row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	if _, err := r.pool.Exec(ctx, `DELETE FROM files WHERE id = $1;`, id); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// DeleteTx is Delete inside a caller-owned transaction.
func (r *Repository) DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM files WHERE id = $1;`, id); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]File, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return files, nil
}

func scanFile(row pgx.Row) (File, error) {
	var f File
	err := row.Scan(&f.ID, &f.OriginalName, &f.StorageKey, &f.Category, &f.Size, &f.FolderID, &f.OwnerID, &f.CreatedAt)
	return f, err
}
