package business

import (
	"context"
	"errors"
	"fmt"

	"github.com/XSAM/otelsql"
	"github.com/samber/oops"

	// Register pgx driver
	_ "github.com/jackc/pgx/v5/stdlib"

	slogctx "github.com/veqryn/slog-context"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"

	"github.com/yogaflow/yoga-sessions/internal/config"
	migrations "github.com/yogaflow/yoga-sessions/sql"
)

// MigrateMain brings the Postgres schema of poses and sessions up to date
// using the migrations named by cfg.Migrate.Source.
func MigrateMain(ctx context.Context, cfg *config.Config) (err error) {
	if cfg.Storage.Backend == config.StorageBackendValKey {
		slogctx.Info(ctx, "Nothing to migrate for the ValKey document store")
		return nil
	}

	fsys, err := migrations.Open(cfg.Migrate.Source)
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	connStr, err := config.MakeConnStr(cfg.Database)
	if err != nil {
		return fmt.Errorf("making connection string from config: %w", err)
	}

	dbSystemName := semconv.DBSystemNamePostgreSQL

	db, err := otelsql.Open("pgx", connStr, otelsql.WithAttributes(dbSystemName))
	if err != nil {
		return oops.In("main").Wrapf(err, "opening DB connection")
	}

	reg, err := otelsql.RegisterDBStatsMetrics(db, otelsql.WithAttributes(dbSystemName))
	if err != nil {
		return errors.Join(fmt.Errorf("registering db stats metrics: %w", err), db.Close())
	}

	defer func() {
		err = errors.Join(err, reg.Unregister(), db.Close())
	}()

	results, err := migrations.Up(ctx, db, fsys)
	for _, result := range results {
		if result.Error != nil {
			continue
		}
		slogctx.Info(ctx, "Applied migration",
			"version", result.Source.Version,
			"path", result.Source.Path,
			"duration", result.Duration,
		)
	}

	if err != nil {
		return err
	}

	slogctx.Info(ctx, "Schema is up to date", "applied", len(results))

	return nil
}
