package store

import "github.com/pkg/errors"

// Expected outcomes the conversation layer branches on. Anything else coming
// out of the store is a storage fault and is never shown to users verbatim.
var (
	// ErrFileAlreadyExists reports an insert violating the per-owner content
	// uniqueness invariant.
	ErrFileAlreadyExists = errors.New("file already exists")

	// ErrFileNotFound reports that an (id, owner) pair does not resolve.
	// Deliberately the same for "doesn't exist" and "not yours".
	ErrFileNotFound = errors.New("file not found")

	// ErrNoFiles reports that an owner has no files at all.
	ErrNoFiles = errors.New("no files uploaded yet")

	// ErrNoCategoryFiles reports that an owner has no files in a category.
	ErrNoCategoryFiles = errors.New("no files in category")
)
