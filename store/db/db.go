// Package db selects the concrete storage driver for a profile.
package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/docshelf/internal/profile"
	"github.com/hrygo/docshelf/store"
	"github.com/hrygo/docshelf/store/db/postgres"
	"github.com/hrygo/docshelf/store/db/sqlite"
)

// NewDBDriver creates a new DB driver based on the profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	switch profile.Driver {
	case "sqlite":
		return sqlite.NewDB(profile)
	case "postgres":
		return postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q", profile.Driver)
	}
}
