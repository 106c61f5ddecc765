package server

import (
	"context"
	"net"
	"time"

	"github.com/openkcm/common-sdk/pkg/commongrpc"
	"github.com/samber/oops"
	"google.golang.org/grpc/health"

	slogctx "github.com/veqryn/slog-context"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/yogaflow/yoga-sessions/internal/config"
)

// StoreServiceName is the health service reporting the document store.
const StoreServiceName = "yoga.sessions.store"

const storeProbeInterval = 5 * time.Second

// StartGRPCServer serves the standard gRPC health service until ctx is done.
// The overall and StoreServiceName statuses follow ping, which is probed
// periodically.
func StartGRPCServer(ctx context.Context, cfg *config.Config, ping func(context.Context) error) error {
	grpcServer := commongrpc.NewServer(ctx, &cfg.GRPC.GRPCServer)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	listener, err := new(net.ListenConfig).Listen(ctx, "tcp", cfg.GRPC.Address)
	if err != nil {
		return oops.In("gRPC Server").
			WithContext(ctx).
			Wrapf(err, "creating listener")
	}

	go probeStore(ctx, healthServer, ping, storeProbeInterval)

	go func() {
		slogctx.Info(ctx, "Starting gRPC server", "address", listener.Addr().String())

		if err := grpcServer.Serve(listener); err != nil {
			slogctx.Error(ctx, "Failed to serve gRPC endpoint", "error", err)
		}

		slogctx.Info(ctx, "Stopped gRPC server")
	}()

	<-ctx.Done()

	healthServer.Shutdown()

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		slogctx.Info(ctx, "Completed graceful shutdown of gRPC server")
	case <-time.After(cfg.GRPC.ShutdownTimeout):
		grpcServer.Stop()
		slogctx.Warn(ctx, "Forced shutdown of gRPC server", "timeout", cfg.GRPC.ShutdownTimeout)
	}

	return nil
}

// probeStore keeps the health statuses in line with ping until ctx is done.
func probeStore(ctx context.Context, healthServer *health.Server, ping func(context.Context) error, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := healthpb.HealthCheckResponse_UNKNOWN
	for {
		status := healthpb.HealthCheckResponse_SERVING
		if ping != nil {
			probeCtx, cancel := context.WithTimeout(ctx, interval)
			err := ping(probeCtx)
			cancel()

			if err != nil {
				status = healthpb.HealthCheckResponse_NOT_SERVING
				if ctx.Err() == nil {
					slogctx.Warn(ctx, "Document store is not answering", "error", err)
				}
			}
		}

		if ctx.Err() != nil {
			return
		}

		if status != last {
			healthServer.SetServingStatus("", status)
			healthServer.SetServingStatus(StoreServiceName, status)
			last = status
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
