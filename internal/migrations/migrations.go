package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

const migrationsDir = "sql"

//go:embed sql/*.sql
var migrationsFS embed.FS

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

func (d Dialect) goose() (goose.Dialect, error) {
	switch d {
	case DialectSQLite:
		return goose.DialectSQLite3, nil
	case DialectPostgres:
		return goose.DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported migration dialect %q", d)
	}
}

// Apply brings db up to the latest schema. Applied versions are tracked in
// goose's version table, so running it again is a no-op.
func Apply(ctx context.Context, db *sql.DB, dialect Dialect) error {
	gooseDialect, err := dialect.goose()
	if err != nil {
		return err
	}

	fsys, err := fs.Sub(migrationsFS, migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	provider, err := goose.NewProvider(gooseDialect, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
