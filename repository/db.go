package repository

import (
	"database/sql"
	"strings"

	auth "github.com/goliatone/go-auth-jwt"
	"github.com/goliatone/go-errors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to driver using dsn and registers the auth models
func Open(driver, dsn string) (*bun.DB, error) {
	var db *bun.DB

	switch strings.ToLower(driver) {
	case DriverSQLite, "":
		sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to open sqlite")
		}
		if isMemoryDSN(dsn) {
			// every connection to an in memory database sees its own copy
			sqldb.SetMaxOpenConns(1)
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case DriverPostgres, "pg", "pgx":
		sqldb, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to open postgres")
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, errors.New("unsupported persistence driver", errors.CategoryBadInput).
			WithMetadata(map[string]any{"driver": driver})
	}

	RegisterModels(db)

	return db, nil
}

// RegisterModels registers the join model used by the user authorities relation
func RegisterModels(db *bun.DB) {
	db.RegisterModel((*auth.UserAuthority)(nil))
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
