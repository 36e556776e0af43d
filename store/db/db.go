// Package db selects the concrete database driver for a profile.
package db

import (
	"github.com/pkg/errors"

	"github.com/openscholar/scholard/internal/profile"
	"github.com/openscholar/scholard/store"
	"github.com/openscholar/scholard/store/db/postgres"
	"github.com/openscholar/scholard/store/db/sqlite"
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
