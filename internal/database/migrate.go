package database

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Migrate brings the schema for the given dialect up to date.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	var gooseDialect goose.Dialect
	switch dialect {
	case DialectPostgres:
		gooseDialect = goose.DialectPostgres
	case DialectSQLite:
		gooseDialect = goose.DialectSQLite3
	default:
		return errors.Errorf("unsupported dialect %q", dialect)
	}

	fsys, err := fs.Sub(migrationFS, "migrations/"+string(dialect))
	if err != nil {
		return errors.Wrap(err, "open migrations")
	}

	provider, err := goose.NewProvider(gooseDialect, db, fsys)
	if err != nil {
		return errors.Wrap(err, "create migration provider")
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return errors.Wrap(err, "apply migrations")
	}

	slog.Info("database schema ensured", "dialect", dialect, "applied", len(results))
	return nil
}
