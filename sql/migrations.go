// Package migrations embeds the goose migrations of the yoga session store.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

// SourceEmbedded selects the migrations compiled into the binary.
const SourceEmbedded = "embedded"

// Open returns the migration files named by source: the embedded set for
// SourceEmbedded or an empty source, otherwise the directory at source.
func Open(source string) (fs.FS, error) {
	if source == "" || source == SourceEmbedded {
		return FS, nil
	}

	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("opening migration source: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("migration source %q is not a directory", source)
	}

	return os.DirFS(source), nil
}

// Up applies every pending migration in fsys to the Postgres database db.
func Up(ctx context.Context, db *sql.DB, fsys fs.FS) ([]*goose.MigrationResult, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("creating migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return results, fmt.Errorf("applying migrations: %w", err)
	}

	return results, nil
}
