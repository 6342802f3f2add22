package node

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServiceName is the service name reported by the gRPC health server,
// alongside the overall ("") status.
const HealthServiceName = "irrigation.node"

// HealthServer serves the standard gRPC health protocol, SERVING while the
// broker connection is open.
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	conn     ConnectionChecker
	interval time.Duration
	log      *zap.Logger
}

func NewHealthServer(conn ConnectionChecker, interval time.Duration, log *zap.Logger) *HealthServer {
	if log == nil {
		log = zap.NewNop()
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	hs := health.NewServer()
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	h := &HealthServer{server: srv, health: hs, conn: conn, interval: interval, log: log}
	h.Refresh()
	return h
}

// Refresh updates the reported status from the connection state.
func (h *HealthServer) Refresh() {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if h.conn != nil && h.conn.IsConnectionOpen() {
		st = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", st)
	h.health.SetServingStatus(HealthServiceName, st)
}

func (h *HealthServer) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := h.health.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

// Serve blocks serving on lis until ctx is cancelled.
func (h *HealthServer) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		t := time.NewTicker(h.interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				h.health.Shutdown()
				h.server.GracefulStop()
				return
			case <-t.C:
				h.Refresh()
			}
		}
	}()
	h.log.Info("gRPC health listening", zap.String("addr", lis.Addr().String()))
	return h.server.Serve(lis)
}
