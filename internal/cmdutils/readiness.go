package cmdutils

import (
	"context"
	"fmt"

	"github.com/openkcm/common-sdk/pkg/health"
	"github.com/valkey-io/valkey-go"

	"github.com/yogaflow/yoga-sessions/internal/config"
)

const valkeyCheckName = "valkey"

// storageChecks returns the readiness checks for the configured document store.
func storageChecks(cfg *config.Config) ([]health.Option, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendValKey:
		opts, err := config.MakeValKeyOptions(cfg.ValKey)
		if err != nil {
			return nil, fmt.Errorf("making valkey options from config: %w", err)
		}

		return []health.Option{withValKeyChecker(opts)}, nil
	case config.StorageBackendPostgres, "":
		connStr, err := config.MakeConnStr(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("making connection string from config: %w", err)
		}

		return []health.Option{health.WithDatabaseChecker("pgx", connStr)}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// withValKeyChecker adds a check that connects with opts and sends a PING.
func withValKeyChecker(opts valkey.ClientOption) health.Option {
	return health.WithCheck(health.Check{
		Name: valkeyCheckName,
		Check: func(ctx context.Context) error {
			client, err := valkey.NewClient(opts)
			if err != nil {
				return fmt.Errorf("%s health check failed on connect: %w", valkeyCheckName, err)
			}
			defer client.Close()

			err = client.Do(ctx, client.B().Ping().Build()).Error()
			if err != nil {
				return fmt.Errorf("%s health check failed on ping: %w", valkeyCheckName, err)
			}

			return nil
		},
	})
}
