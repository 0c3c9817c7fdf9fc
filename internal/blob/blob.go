// Package blob stores physical file content under opaque content-addressed
// keys, decoupled from user-visible names.
package blob

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound signals the blob is missing from the physical volume even
// though a logical record may still reference it.
var ErrNotFound = errors.New("blob not found")

// Store is the contract between logical file records and physical bytes.
type Store interface {
	// Save writes content under a freshly generated key and returns the key.
	Save(ctx context.Context, content io.Reader, extHint string) (string, error)
	// Delete removes the blob. It is idempotent and best-effort: a missing
	// blob or an I/O failure never fails the caller.
	Delete(ctx context.Context, key string)
	// SizeOf reports the stored byte count for a key.
	SizeOf(ctx context.Context, key string) (int64, error)
	// Open returns a reader over the blob, or ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// NewKey generates a storage key: random 128-bit hex plus the lowercased
// extension hint. Keys never derive from user input.
func NewKey(extHint string) string {
	ext := strings.ToLower(strings.TrimSpace(extHint))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "") + ext
}
