// Package valkeytest runs a disposable Valkey server for store tests.
package valkeytest

import (
	"context"
	"net"

	"github.com/docker/go-connections/nat"
	"github.com/valkey-io/valkey-go"

	valkeycontainer "github.com/testcontainers/testcontainers-go/modules/valkey"
	slogctx "github.com/veqryn/slog-context"
)

const Image = "valkey/valkey:8-alpine"

// Start runs a Valkey container and returns a connected client, the mapped
// port, and a function terminating the container.
func Start(ctx context.Context) (valkey.Client, nat.Port, func(ctx context.Context)) {
	valkeyContainer, err := valkeycontainer.Run(ctx, Image)
	if err != nil {
		slogctx.Error(ctx, "Failed to start Valkey container", "error", err)
		panic(err)
	}

	port, err := valkeyContainer.MappedPort(ctx, nat.Port("6379"))
	if err != nil {
		slogctx.Error(ctx, "Failed to map a port for the Valkey container", "error", err)
		panic(err)
	}

	client, err := Connect(port)
	if err != nil {
		slogctx.Error(ctx, "Failed to connect to the Valkey container", "error", err)
		panic(err)
	}

	terminate := func(ctx context.Context) {
		if err := valkeyContainer.Terminate(ctx); err != nil {
			slogctx.Error(ctx, "Failed to terminate Valkey container", "error", err)
			panic(err)
		}
	}

	return client, port, terminate
}

// Connect opens an additional client to the server on port.
func Connect(port nat.Port) (valkey.Client, error) {
	return valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{net.JoinHostPort("localhost", port.Port())},
	})
}

// Flush removes every key so a test starts from an empty store.
func Flush(ctx context.Context, client valkey.Client) error {
	return client.Do(ctx, client.B().Flushdb().Build()).Error()
}
