package file

import "errors"

var (
	// ErrNotFound signals the logical file record does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrNoFiles signals an upload request without any file payloads.
	ErrNoFiles = errors.New("no files in request")
)
