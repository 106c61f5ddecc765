//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yogaflow/yoga-sessions/internal/config"
	"github.com/yogaflow/yoga-sessions/internal/dbtest/postgrestest"
	"github.com/yogaflow/yoga-sessions/internal/dbtest/valkeytest"
)

type closeFunc func(ctx context.Context)

type infraStat struct {
	PostgresPool   *pgxpool.Pool
	PostgresPort   nat.Port
	ValKeyPort     nat.Port
	ConfigFilePath string
	Procdir        string
	Workdir        string
	Cfg            config.Config

	closeFuncs []closeFunc
}

func initInfra(t *testing.T, exeName string) (istat infraStat) {
	t.Helper()

	// Since the config is read from the file $PWD/config.yaml,
	// we're running a process in a subdirectory so that we aren't interferring with the other tests.
	wd, err := os.Getwd()
	require.NoError(t, err, "failed to get wd")
	istat.Workdir = wd
	istat.Procdir = filepath.Join(wd, exeName+"-test")
	istat.ConfigFilePath = filepath.Join(istat.Procdir, "config.yaml")

	// Prepare a directory for the test
	err = os.MkdirAll(istat.Procdir, fs.ModePerm)
	require.NoError(t, err, "failed to create a dir for the process")

	err = os.WriteFile(istat.ConfigFilePath, []byte(validConfig), fs.ModePerm)
	require.NoError(t, err, "failed to write config file")

	err = commoncfg.LoadConfig(&istat.Cfg, nil, istat.Procdir)
	require.NoError(t, err, "failed to load config")

	// A unix socket spares us looking up a free port
	istat.Cfg.HTTP.Address = "unix://" + filepath.Join(istat.Procdir, exeName+".sock")
	istat.Cfg.GRPC.Address = "localhost:0"

	return istat
}

func (istat *infraStat) PreparePostgres(t *testing.T) {
	t.Helper()

	pgPool, pgPort, pgTerminate := postgrestest.Start(t.Context())

	istat.PostgresPool = pgPool
	istat.closeFuncs = append(istat.closeFuncs, pgTerminate)

	istat.UsePostgres(pgPort)
}

// UsePostgres points the config at the test database exposed on pgPort.
func (istat *infraStat) UsePostgres(pgPort nat.Port) {
	istat.PostgresPort = pgPort
	istat.Cfg.Storage.Backend = config.StorageBackendPostgres
	istat.Cfg.Database.Name = postgrestest.DBName
	istat.Cfg.Database.User = commoncfg.SourceRef{Source: "embedded", Value: postgrestest.DBUser}
	istat.Cfg.Database.Password = commoncfg.SourceRef{Source: "embedded", Value: postgrestest.DBPassword}
	istat.Cfg.Database.Host = commoncfg.SourceRef{Source: "embedded", Value: postgrestest.DBHost}
	istat.Cfg.Database.Port = pgPort.Port()
	istat.Cfg.Database.SSLMode = postgrestest.DBSSLMode
}

func (istat *infraStat) PrepareValKey(t *testing.T) {
	t.Helper()

	vkClient, vkPort, vkTerminate := valkeytest.Start(t.Context())
	vkClient.Close()

	istat.ValKeyPort = vkPort
	istat.closeFuncs = append(istat.closeFuncs, vkTerminate)

	istat.Cfg.Storage.Backend = config.StorageBackendValKey
	istat.Cfg.ValKey.Host = commoncfg.SourceRef{Source: "embedded", Value: net.JoinHostPort("localhost", vkPort.Port())}
	istat.Cfg.ValKey.User = commoncfg.SourceRef{Source: "embedded", Value: ""}
	istat.Cfg.ValKey.Password = commoncfg.SourceRef{Source: "embedded", Value: ""}
}

// PrepareConfig writes a config file for running the test into the ConfigFilePath.
func (istat *infraStat) PrepareConfig(t *testing.T) {
	t.Helper()

	configFile, err := os.Create(istat.ConfigFilePath)
	require.NoError(t, err, "failed to create config file")

	err = yaml.NewEncoder(configFile).Encode(istat.Cfg)
	require.NoError(t, err, "failed to write config")
	configFile.Close()
}

// Run runs the binary to completion inside Procdir.
func (istat *infraStat) Run(t *testing.T, args ...string) {
	t.Helper()

	cmd := istat.command(t, args...)
	if err := cmd.Run(); err != nil {
		t.Fatalf("process exited abnormally: %s", err)
	}
}

// Start starts the binary in the background and stops it with SIGTERM on cleanup.
func (istat *infraStat) Start(t *testing.T, args ...string) {
	t.Helper()

	cmd := istat.command(t, args...)
	if err := cmd.Start(); err != nil {
		t.Fatalf("could not start command: %s", err)
	}

	// stop gracefully so that coverprofiles are written
	t.Cleanup(func() {
		_ = syscall.Kill(cmd.Process.Pid, syscall.SIGTERM)
		_ = cmd.Wait()
	})
}

func (istat *infraStat) command(t *testing.T, args ...string) *exec.Cmd {
	t.Helper()

	cmd := exec.CommandContext(t.Context(), filepath.Join(istat.Workdir, binary), args...)
	cmd.Dir = istat.Procdir

	cmdOutPath := filepath.Join(istat.Workdir, fmt.Sprintf("%s.log", filepath.Base(istat.Procdir)))
	cmdOut, err := os.OpenFile(cmdOutPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err, "failed to create a log file")
	t.Cleanup(func() { cmdOut.Close() })

	cmd.Stdout = cmdOut
	cmd.Stderr = cmdOut
	t.Logf("starting an app process. Logs will be saved into %s", cmdOutPath)

	return cmd
}

// HTTPClient returns a client dialing the unix socket of the API server.
func (istat *infraStat) HTTPClient() *http.Client {
	socket := istat.Cfg.HTTP.Address[len("unix://"):]

	return &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				return new(net.Dialer).DialContext(ctx, "unix", socket)
			},
		},
	}
}

// WaitForAPI polls the ping endpoint until the server answers.
func (istat *infraStat) WaitForAPI(t *testing.T) {
	t.Helper()

	client := istat.HTTPClient()
	for range 100 {
		resp, err := client.Get("http://api/ping")
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatal("could not connect to the API server")
}

func (istat *infraStat) Close(ctx context.Context) {
	os.Remove(istat.ConfigFilePath)
	os.RemoveAll(istat.Procdir)

	for _, close := range istat.closeFuncs {
		close(ctx)
	}
}
