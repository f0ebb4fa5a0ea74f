package store

// FileRecord is the stored metadata of one uploaded file. The file bytes
// themselves never touch the store; Telegram keeps them and FileID is enough
// to re-send the same content later.
type FileRecord struct {
	// ID is allocated by the store on insert, monotonically and never reused.
	// Zero on records not yet persisted.
	ID int64
	// FileUniqueID identifies the file content itself. Unique per owner.
	FileUniqueID string
	// FileID is the transport handle used to re-send the content. Not unique.
	FileID string
	// OwnerID is the Telegram user id of the uploader.
	OwnerID int64
	// Category is the user-chosen label, non-empty after trimming.
	Category string
	// FileName is the human-readable name supplied by the transport.
	FileName string
}

// SameContent reports whether two records refer to the same uploaded
// content. This is intentional partial equality on FileUniqueID only, so a
// staged record that has no ID yet compares equal to its persisted
// counterpart.
func (f *FileRecord) SameContent(other *FileRecord) bool {
	return f.FileUniqueID == other.FileUniqueID
}

// FindFile filters file queries. OwnerID is always required: every lookup is
// scoped to its owner, which doubles as the authorization check.
type FindFile struct {
	ID       *int64
	Category *string
	OwnerID  int64
}

// DeleteFile filters file deletion. Exactly one of ID or Category is set.
type DeleteFile struct {
	ID       *int64
	Category *string
	OwnerID  int64
}

// GroupFilesByCategory groups records by category, preserving first-seen
// category order and the relative order of records within a category.
//
// The input must already be sorted by category, as the store's listing
// queries guarantee. The function does not sort; unsorted input produces a
// fragmented grouping.
func GroupFilesByCategory(files []*FileRecord) ([]string, map[string][]*FileRecord) {
	categories := []string{}
	grouped := make(map[string][]*FileRecord)
	for _, file := range files {
		if _, ok := grouped[file.Category]; !ok {
			categories = append(categories, file.Category)
		}
		grouped[file.Category] = append(grouped[file.Category], file)
	}
	return categories, grouped
}
