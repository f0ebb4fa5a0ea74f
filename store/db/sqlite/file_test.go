package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/docshelf/internal/profile"
	"github.com/hrygo/docshelf/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "docshelf_test.db"),
	}
	driver, err := NewDB(p)
	require.NoError(t, err)

	s := store.New(driver, p)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func createFile(t *testing.T, s *store.Store, ownerID int64, uniqueID, category string) *store.FileRecord {
	t.Helper()
	file, err := s.CreateFile(context.Background(), &store.FileRecord{
		FileUniqueID: uniqueID,
		FileID:       "handle-" + uniqueID,
		OwnerID:      ownerID,
		Category:     category,
		FileName:     uniqueID + ".pdf",
	})
	require.NoError(t, err)
	return file
}

func TestCreateFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	file := createFile(t, s, 1, "abc", "books")
	assert.Positive(t, file.ID)

	got, err := s.GetFile(ctx, file.ID, 1)
	require.NoError(t, err)
	assert.True(t, got.SameContent(file))
	assert.Equal(t, "books", got.Category)

	categories, err := s.ListCategories(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"books"}, categories)
}

func TestCreateFileDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createFile(t, s, 1, "abc", "books")

	// Same owner and content: rejected regardless of category.
	_, err := s.CreateFile(ctx, &store.FileRecord{
		FileUniqueID: "abc",
		FileID:       "other-handle",
		OwnerID:      1,
		Category:     "articles",
		FileName:     "again.pdf",
	})
	assert.ErrorIs(t, err, store.ErrFileAlreadyExists)

	// The failed insert added nothing.
	files, err := s.ListFiles(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestCreateFileSameContentDifferentOwners(t *testing.T) {
	s := newTestStore(t)

	// Uniqueness is per owner: two users may store identical content.
	createFile(t, s, 1, "x", "photos")
	createFile(t, s, 2, "x", "photos")
}

func TestMonotonicIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := createFile(t, s, 1, "a", "misc")
	second := createFile(t, s, 1, "b", "misc")
	require.Greater(t, second.ID, first.ID)

	// Ids are never reused, even after deletion.
	require.NoError(t, s.DeleteFile(ctx, second.ID, 1))
	third := createFile(t, s, 1, "c", "misc")
	assert.Greater(t, third.ID, second.ID)
}

func TestGetFileNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetFile(ctx, 999, 1)
	assert.ErrorIs(t, err, store.ErrFileNotFound)
}

func TestGetFileWrongOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	file := createFile(t, s, 1, "abc", "books")

	// A correct id with the wrong owner must look exactly like a missing id.
	_, err := s.GetFile(ctx, file.ID, 2)
	assert.ErrorIs(t, err, store.ErrFileNotFound)
}

func TestListFilesOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Inserted out of category order on purpose.
	createFile(t, s, 1, "b1", "books")
	createFile(t, s, 1, "a1", "articles")
	createFile(t, s, 1, "b2", "books")

	files, err := s.ListFiles(ctx, 1)
	require.NoError(t, err)
	require.Len(t, files, 3)

	// Ordered by category, then insertion order within a category.
	assert.Equal(t, "a1", files[0].FileUniqueID)
	assert.Equal(t, "b1", files[1].FileUniqueID)
	assert.Equal(t, "b2", files[2].FileUniqueID)
}

func TestListFilesEmpty(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ListFiles(context.Background(), 1)
	assert.ErrorIs(t, err, store.ErrNoFiles)
}

func TestListFilesOwnershipIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createFile(t, s, 1, "abc", "books")

	_, err := s.ListFiles(ctx, 2)
	assert.ErrorIs(t, err, store.ErrNoFiles)
	_, err = s.ListCategoryFiles(ctx, "books", 2)
	assert.ErrorIs(t, err, store.ErrNoCategoryFiles)
}

func TestListCategoryFiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createFile(t, s, 1, "b1", "books")
	createFile(t, s, 1, "a1", "articles")

	files, err := s.ListCategoryFiles(ctx, "books", 1)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "b1", files[0].FileUniqueID)

	_, err = s.ListCategoryFiles(ctx, "missing", 1)
	assert.ErrorIs(t, err, store.ErrNoCategoryFiles)
}

func TestListCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createFile(t, s, 1, "b1", "books")
	createFile(t, s, 1, "b2", "books")
	createFile(t, s, 1, "a1", "articles")

	categories, err := s.ListCategories(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"articles", "books"}, categories)

	// Identical category strings under different owners never merge.
	createFile(t, s, 2, "x1", "books")
	categories, err = s.ListCategories(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"books"}, categories)
}

func TestListCategoriesEmpty(t *testing.T) {
	s := newTestStore(t)

	categories, err := s.ListCategories(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestDeleteFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	file := createFile(t, s, 1, "abc", "books")
	require.NoError(t, s.DeleteFile(ctx, file.ID, 1))

	_, err := s.GetFile(ctx, file.ID, 1)
	assert.ErrorIs(t, err, store.ErrFileNotFound)

	// Deleting the same pair again resolves nothing.
	err = s.DeleteFile(ctx, file.ID, 1)
	assert.ErrorIs(t, err, store.ErrFileNotFound)
}

func TestDeleteFileWrongOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	file := createFile(t, s, 1, "abc", "books")

	err := s.DeleteFile(ctx, file.ID, 2)
	assert.ErrorIs(t, err, store.ErrFileNotFound)

	// Still there for its owner.
	_, err = s.GetFile(ctx, file.ID, 1)
	assert.NoError(t, err)
}

func TestDeleteCategoryFiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createFile(t, s, 1, "b1", "books")
	createFile(t, s, 1, "b2", "books")
	createFile(t, s, 1, "a1", "articles")
	createFile(t, s, 2, "b1", "books")

	require.NoError(t, s.DeleteCategoryFiles(ctx, "books", 1))

	files, err := s.ListFiles(ctx, 1)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "articles", files[0].Category)

	// Another owner's identically named category is untouched.
	files, err = s.ListFiles(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestDeleteCategoryFilesNoMatches(t *testing.T) {
	s := newTestStore(t)

	// Zero matches is a silent no-op.
	assert.NoError(t, s.DeleteCategoryFiles(context.Background(), "missing", 1))
}
