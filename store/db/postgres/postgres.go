package postgres

import (
	"context"
	"database/sql"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/hrygo/docshelf/internal/profile"
	"github.com/hrygo/docshelf/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the PostgreSQL database named by the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	postgresDB, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	driver := DB{db: postgresDB, profile: profile}

	return &driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

// BIGSERIAL sequences are monotonic and do not reuse values after deletes.
const schema = `
CREATE TABLE IF NOT EXISTS file (
	id BIGSERIAL PRIMARY KEY,
	file_unique_id TEXT NOT NULL,
	file_id TEXT NOT NULL,
	owner_id BIGINT NOT NULL,
	category TEXT NOT NULL,
	file_name TEXT NOT NULL,
	UNIQUE (owner_id, file_unique_id)
);

CREATE INDEX IF NOT EXISTS idx_file_owner_category ON file (owner_id, category, id);
`

// Migrate ensures the schema exists.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to ensure schema")
	}
	return nil
}
