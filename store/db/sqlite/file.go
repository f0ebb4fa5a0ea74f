package sqlite

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/pkg/errors"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/hrygo/docshelf/store"
)

func (d *DB) CreateFile(ctx context.Context, create *store.FileRecord) (*store.FileRecord, error) {
	stmt := `
		INSERT INTO file (file_unique_id, file_id, owner_id, category, file_name)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`
	file := *create
	err := d.db.QueryRowContext(ctx, stmt,
		create.FileUniqueID,
		create.FileID,
		create.OwnerID,
		create.Category,
		create.FileName,
	).Scan(&file.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrFileAlreadyExists
		}
		return nil, errors.Wrap(err, "failed to create file")
	}
	return &file, nil
}

func (d *DB) ListFiles(ctx context.Context, find *store.FindFile) ([]*store.FileRecord, error) {
	where, args := []string{"owner_id = ?"}, []any{find.OwnerID}
	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.Category != nil {
		where, args = append(where, "category = ?"), append(args, *find.Category)
	}

	stmt := `
		SELECT id, file_unique_id, file_id, owner_id, category, file_name
		FROM file
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY category, id
	`
	rows, err := d.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list files")
	}
	defer rows.Close()

	files := []*store.FileRecord{}
	for rows.Next() {
		var file store.FileRecord
		if err := rows.Scan(
			&file.ID,
			&file.FileUniqueID,
			&file.FileID,
			&file.OwnerID,
			&file.Category,
			&file.FileName,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan file")
		}
		files = append(files, &file)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate files")
	}
	return files, nil
}

func (d *DB) ListCategories(ctx context.Context, ownerID int64) ([]string, error) {
	stmt := `
		SELECT DISTINCT category
		FROM file
		WHERE owner_id = ?
		ORDER BY category
	`
	rows, err := d.db.QueryContext(ctx, stmt, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, errors.Wrap(err, "failed to scan category")
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate categories")
	}
	return categories, nil
}

func (d *DB) DeleteFiles(ctx context.Context, delete *store.DeleteFile) error {
	where, args := []string{"owner_id = ?"}, []any{delete.OwnerID}
	if delete.ID != nil {
		where, args = append(where, "id = ?"), append(args, *delete.ID)
	}
	if delete.Category != nil {
		where, args = append(where, "category = ?"), append(args, *delete.Category)
	}

	stmt := `DELETE FROM file WHERE ` + strings.Join(where, " AND ")
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "failed to delete files")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !stderrors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
