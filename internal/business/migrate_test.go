package business

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogaflow/yoga-sessions/internal/config"
	"github.com/yogaflow/yoga-sessions/internal/dbtest/postgrestest"
	migrations "github.com/yogaflow/yoga-sessions/sql"
)

func testDatabase(port nat.Port) config.Database {
	return config.Database{
		Host:     commoncfg.SourceRef{Source: "embedded", Value: postgrestest.DBHost},
		Port:     port.Port(),
		Name:     postgrestest.DBName,
		User:     commoncfg.SourceRef{Source: "embedded", Value: postgrestest.DBUser},
		Password: commoncfg.SourceRef{Source: "embedded", Value: postgrestest.DBPassword},
		SSLMode:  postgrestest.DBSSLMode,
	}
}

func TestMigrateMain_InvalidConfig(t *testing.T) {
	missingFile := commoncfg.SourceRef{Source: "file", File: commoncfg.CredentialFile{Path: "/nonexistent/file"}}
	embedded := func(v string) commoncfg.SourceRef { return commoncfg.SourceRef{Source: "embedded", Value: v} }

	tests := []struct {
		name      string
		cfg       *config.Config
		errSubstr string
	}{
		{
			name: "unreadable host",
			cfg: &config.Config{Database: config.Database{
				Host: missingFile, User: embedded("user"), Password: embedded("pass"),
			}},
			errSubstr: "making connection string from config",
		},
		{
			name: "unreadable user",
			cfg: &config.Config{Database: config.Database{
				Host: embedded("localhost"), User: missingFile, Password: embedded("pass"),
			}},
			errSubstr: "making connection string from config",
		},
		{
			name: "unreadable password",
			cfg: &config.Config{Database: config.Database{
				Host: embedded("localhost"), User: embedded("user"), Password: missingFile,
			}},
			errSubstr: "making connection string from config",
		},
		{
			name: "missing migration directory",
			cfg: &config.Config{
				Migrate: config.Migrate{Source: "/nonexistent/migrations"},
			},
			errSubstr: "loading migrations",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MigrateMain(t.Context(), tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestMigrateMain_ValKeyBackend(t *testing.T) {
	cfg := &config.Config{
		Storage: config.Storage{Backend: config.StorageBackendValKey},
		// never read for the valkey backend
		Migrate: config.Migrate{Source: "/nonexistent/migrations"},
	}

	assert.NoError(t, MigrateMain(t.Context(), cfg))
}

func TestMigrateMain(t *testing.T) {
	ctx := t.Context()

	port, terminate := postgrestest.StartEmpty(ctx)
	defer terminate(ctx)

	conn, err := pgx.Connect(ctx, postgrestest.ConnStr(port))
	require.NoError(t, err)
	defer conn.Close(ctx)

	tableExists := func(t *testing.T, table string) bool {
		t.Helper()

		var exists bool
		err := conn.QueryRow(ctx,
			`SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = $1);`, table,
		).Scan(&exists)
		require.NoError(t, err)

		return exists
	}

	t.Run("applies the embedded migrations", func(t *testing.T) {
		cfg := &config.Config{
			Database: testDatabase(port),
			Migrate:  config.Migrate{Source: "embedded"},
		}

		require.NoError(t, MigrateMain(ctx, cfg))
		// nothing pending the second time
		require.NoError(t, MigrateMain(ctx, cfg))

		assert.True(t, tableExists(t, "poses"))
		assert.True(t, tableExists(t, "sessions"))

		_, err := conn.Exec(ctx, `INSERT INTO sessions (name, document) VALUES ('a', '{}'), ('b', '{}');`)
		require.NoError(t, err)

		_, err = conn.Exec(ctx, `INSERT INTO sessions (name, document) VALUES ('a', '{}');`)
		assert.Error(t, err, "session names must be unique")
	})

	t.Run("applies migrations from a directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.CopyFS(dir, migrations.FS))

		migration := `-- +goose Up
CREATE TABLE session_notes (id BIGSERIAL PRIMARY KEY, note TEXT NOT NULL);

-- +goose Down
DROP TABLE session_notes;
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "00003_create_session_notes.sql"), []byte(migration), 0o600))

		cfg := &config.Config{
			Database: testDatabase(port),
			Migrate:  config.Migrate{Source: dir},
		}

		require.NoError(t, MigrateMain(ctx, cfg))
		assert.True(t, tableExists(t, "session_notes"))
	})
}
