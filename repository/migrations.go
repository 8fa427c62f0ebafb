package repository

import (
	"context"
	"embed"
	"io/fs"

	auth "github.com/goliatone/go-auth-jwt"
	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the migration files for this package
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// Migrate applies pending schema migrations. The schema seeds the
// ROLE_USER and ROLE_ADMIN authorities.
func Migrate(ctx context.Context, db *bun.DB, logger auth.Logger) error {
	sub, err := fs.Sub(migrationsFS, "data/sql/migrations")
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to load migrations")
	}

	migrations := migrate.NewMigrations()
	if err := migrations.Discover(sub); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to discover migrations")
	}

	migrator := migrate.NewMigrator(db, migrations)
	if err := migrator.Init(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to init migrations")
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to apply migrations")
	}

	if logger != nil {
		if group.IsZero() {
			logger.Debug("schema up to date")
		} else {
			logger.Info("schema migrated", "group", group.String())
		}
	}

	return nil
}
