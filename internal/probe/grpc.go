package probe

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/hasec/netwatch/internal/core/domain"
)

// GRPCProbe checks a dependent service over the standard gRPC health
// protocol. Useful when the appliance fronts its services with gRPC and the
// watchdog should restart networking when they become unreachable.
type GRPCProbe struct {
	target  string
	service string
	timeout time.Duration
}

// NewGRPCProbe creates a gRPC health-check probe. An empty service name
// queries the server's overall status.
func NewGRPCProbe(target, service string, timeout time.Duration) *GRPCProbe {
	return &GRPCProbe{target: target, service: service, timeout: timeout}
}

func (p *GRPCProbe) Name() string { return "grpc" }

func (p *GRPCProbe) Check(ctx context.Context) domain.ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := grpc.NewClient(p.target,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return domain.Unhealthy(fmt.Errorf("grpc client %s: %w", p.target, err))
	}
	defer func() {
		_ = conn.Close()
	}()

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx,
		&grpc_health_v1.HealthCheckRequest{Service: p.service})
	if err != nil {
		return domain.Unhealthy(fmt.Errorf("grpc health check %s: %w", p.target, err))
	}

	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		return domain.Unhealthy(
			fmt.Errorf("grpc health %s: status %s", p.target, resp.GetStatus()))
	}
	return domain.ProbeResult{Healthy: true, Label: p.target}
}
