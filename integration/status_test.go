//go:build integration

package integration_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestStatusServer(t *testing.T) {
	const cmdName = "api-server"

	ctx := t.Context()

	istat := initInfra(t, cmdName+"-status")
	defer istat.Close(ctx)

	istat.PreparePostgres(t)
	istat.Cfg.GRPC.Address = "localhost:9092"
	istat.PrepareConfig(t)
	istat.Start(t, cmdName)
	istat.WaitForAPI(t)

	// give the status server some time to start before running the test
	for range 100 {
		if resp, err := http.Get("http://localhost:8888/"); err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	for _, endpoint := range []string{"version", "probe/readiness", "probe/liveness"} {
		t.Run(endpoint, func(t *testing.T) {
			resp, err := http.Get("http://localhost:8888/" + endpoint)
			require.NoError(t, err)
			defer resp.Body.Close()

			got, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			var js json.RawMessage
			assert.NoError(t, json.Unmarshal(got, &js), "response is not valid json: %s", got)
		})
	}

	t.Run("grpc health", func(t *testing.T) {
		conn, err := grpc.NewClient(istat.Cfg.GRPC.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
		require.NoError(t, err)
		defer conn.Close()

		resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	})
}
