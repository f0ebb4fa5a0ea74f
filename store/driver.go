package store

import "context"

// Driver is an interface for storage drivers. Drivers translate their native
// failure modes (unique violations in particular) into the store sentinels;
// empty result sets are returned as empty slices and given meaning by the
// Store facade.
type Driver interface {
	// CreateFile persists a record and returns it with the allocated ID.
	// Returns ErrFileAlreadyExists when (OwnerID, FileUniqueID) is taken.
	CreateFile(ctx context.Context, create *FileRecord) (*FileRecord, error)

	// ListFiles returns matching records ordered by category, then by id.
	ListFiles(ctx context.Context, find *FindFile) ([]*FileRecord, error)

	// ListCategories returns the owner's distinct categories in the same
	// category order as ListFiles.
	ListCategories(ctx context.Context, ownerID int64) ([]string, error)

	// DeleteFiles removes matching rows. Zero matches is not an error.
	DeleteFiles(ctx context.Context, delete *DeleteFile) error

	// Migrate ensures the schema exists.
	Migrate(ctx context.Context) error

	Close() error
}
