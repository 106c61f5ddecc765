package business

import (
	"context"
	"fmt"
	"sync"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	slogctx "github.com/veqryn/slog-context"

	"github.com/yogaflow/yoga-sessions/internal/business/server"
	"github.com/yogaflow/yoga-sessions/internal/config"
	"github.com/yogaflow/yoga-sessions/internal/pose"
	posesql "github.com/yogaflow/yoga-sessions/internal/pose/sql"
	posevalkey "github.com/yogaflow/yoga-sessions/internal/pose/valkey"
	"github.com/yogaflow/yoga-sessions/internal/session"
	sessionsql "github.com/yogaflow/yoga-sessions/internal/session/sql"
	sessionvalkey "github.com/yogaflow/yoga-sessions/internal/session/valkey"
)

// Main opens the configured store and serves the public REST API and the
// internal gRPC health endpoint until ctx is done or either server fails.
func Main(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	svcs, closeFn, err := initServices(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialising services: %w", err)
	}
	defer closeFn()

	// errChan is used to capture the first error and shutdown the servers.
	errChan := make(chan error, 2)

	// wg is used to wait for all servers to shutdown.
	var wg sync.WaitGroup

	// start public HTTP REST API server
	wg.Go(func() {
		errChan <- server.StartHTTPServer(ctx, cfg, svcs.sessions, svcs.poses)
	})

	// start internal gRPC health server reporting the store status
	wg.Go(func() {
		errChan <- server.StartGRPCServer(ctx, cfg, svcs.ping)
	})

	// wait for any error to initiate the shutdown
	if err := <-errChan; err != nil {
		slogctx.Error(ctx, "Shutting down servers", "error", err)
	}
	cancel()

	// wait for all servers to shutdown
	wg.Wait()

	return nil
}

type services struct {
	poses    *pose.Service
	sessions *session.Service
	ping     func(context.Context) error
}

type repositories struct {
	poses    pose.Repository
	sessions session.Repository
	// ping reports whether the store answers.
	ping func(context.Context) error
}

// initServices opens the configured store and builds the pose and session services on top of it.
func initServices(ctx context.Context, cfg *config.Config) (services, func(), error) {
	repos, closeFn, err := initRepositories(ctx, cfg)
	if err != nil {
		return services{}, nil, err
	}

	poses := pose.NewService(repos.poses)
	sessions := session.NewService(repos.sessions, poses,
		session.WithPoseReferenceValidation(cfg.Sessions.ValidatePoseReferences),
	)

	return services{poses: poses, sessions: sessions, ping: repos.ping}, closeFn, nil
}

func initRepositories(ctx context.Context, cfg *config.Config) (repositories, func(), error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendPostgres, "":
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return repositories{}, nil, err
		}

		slogctx.Info(ctx, "Using PostgreSQL document store")

		return repositories{
			poses:    posesql.NewRepository(db),
			sessions: sessionsql.NewRepository(db),
			ping:     db.Ping,
		}, db.Close, nil
	case config.StorageBackendValKey:
		client, err := openValKey(cfg)
		if err != nil {
			return repositories{}, nil, err
		}

		slogctx.Info(ctx, "Using ValKey document store", "prefix", cfg.ValKey.Prefix)

		return repositories{
			poses:    posevalkey.NewRepository(client, cfg.ValKey.Prefix),
			sessions: sessionvalkey.NewRepository(client, cfg.ValKey.Prefix),
			ping: func(ctx context.Context) error {
				return client.Do(ctx, client.B().Ping().Build()).Error()
			},
		}, client.Close, nil
	default:
		return repositories{}, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	connStr, err := config.MakeConnStr(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("making dsn from config: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parsing pgxpool config: %w", err)
	}

	poolCfg.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("initialising pgxpool connection: %w", err)
	}

	return db, nil
}

func openValKey(cfg *config.Config) (valkey.Client, error) {
	opts, err := config.MakeValKeyOptions(cfg.ValKey)
	if err != nil {
		return nil, fmt.Errorf("making valkey options from config: %w", err)
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("creating a new valkey client: %w", err)
	}

	return client, nil
}
