package store

import (
	"context"

	"github.com/hrygo/docshelf/internal/profile"
)

// Store provides database access to file records. It owns the uniqueness
// and lookup contracts; the driver underneath only moves rows.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

// Migrate ensures the schema exists.
func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// CreateFile persists a record, allocating its ID. Returns
// ErrFileAlreadyExists when the owner already stored the same content.
func (s *Store) CreateFile(ctx context.Context, create *FileRecord) (*FileRecord, error) {
	return s.driver.CreateFile(ctx, create)
}

// GetFile returns the record matching both id and owner. The double match is
// the authorization check: someone else's record yields ErrFileNotFound, not
// a hint that it exists.
func (s *Store) GetFile(ctx context.Context, id, ownerID int64) (*FileRecord, error) {
	files, err := s.driver.ListFiles(ctx, &FindFile{ID: &id, OwnerID: ownerID})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrFileNotFound
	}
	return files[0], nil
}

// ListFiles returns all of the owner's records ordered by category, then by
// insertion order. Returns ErrNoFiles when the owner has none.
func (s *Store) ListFiles(ctx context.Context, ownerID int64) ([]*FileRecord, error) {
	files, err := s.driver.ListFiles(ctx, &FindFile{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	return files, nil
}

// ListCategoryFiles returns the owner's records in one category. Returns
// ErrNoCategoryFiles when the category is empty.
func (s *Store) ListCategoryFiles(ctx context.Context, category string, ownerID int64) ([]*FileRecord, error) {
	files, err := s.driver.ListFiles(ctx, &FindFile{Category: &category, OwnerID: ownerID})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoCategoryFiles
	}
	return files, nil
}

// ListCategories returns the owner's distinct categories in listing order.
// An owner without files gets an empty slice, not an error: callers render
// their own "nothing yet" message.
func (s *Store) ListCategories(ctx context.Context, ownerID int64) ([]string, error) {
	return s.driver.ListCategories(ctx, ownerID)
}

// DeleteFile removes the record matching both id and owner. The existence
// pre-check produces ErrFileNotFound for foreign or missing records; the
// driver-level delete of zero rows is itself a no-op.
func (s *Store) DeleteFile(ctx context.Context, id, ownerID int64) error {
	if _, err := s.GetFile(ctx, id, ownerID); err != nil {
		return err
	}
	return s.driver.DeleteFiles(ctx, &DeleteFile{ID: &id, OwnerID: ownerID})
}

// DeleteCategoryFiles removes all of the owner's records in a category.
// Zero matches is a silent no-op.
func (s *Store) DeleteCategoryFiles(ctx context.Context, category string, ownerID int64) error {
	return s.driver.DeleteFiles(ctx, &DeleteFile{Category: &category, OwnerID: ownerID})
}
