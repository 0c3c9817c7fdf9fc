package folder

import "errors"

var (
	// ErrNotFound signals the referenced folder does not exist.
	ErrNotFound = errors.New("folder not found")
	// ErrNameRequired signals a missing or blank folder name.
	ErrNameRequired = errors.New("folder name required")
	// ErrAlreadyExists signals a (name, parent, owner) uniqueness conflict.
	ErrAlreadyExists = errors.New("folder already exists")
	// ErrCycle signals a move that would make a folder its own ancestor.
	ErrCycle = errors.New("folder cycle rejected")
)
