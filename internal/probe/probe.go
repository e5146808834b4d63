// Package probe implements the health checks the supervisor runs each cycle.
//
// Every probe answers whether connectivity is up right now, within a bounded
// timeout. A probe that cannot execute at all reports unhealthy: the
// supervisor must fail toward recovery, never silently toward health.
package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/hasec/netwatch/internal/core/domain"
)

// Probe is a single health check with a boolean outcome.
type Probe interface {
	// Check runs the probe. It must return within the configured timeout;
	// a timeout reports unhealthy.
	Check(ctx context.Context) domain.ProbeResult

	// Name identifies the probe in logs and status output.
	Name() string
}

// Config selects and parameterizes a probe.
type Config struct {
	// Type is one of "wifi", "command", "tcp", "http", "grpc".
	Type string `yaml:"type"`
	// Target is the address or URL for tcp, http and grpc probes.
	Target string `yaml:"target"`
	// Command is the shell command for command probes.
	Command string `yaml:"command"`
	// Service is the optional gRPC health service name.
	Service string `yaml:"service"`
	// Timeout bounds each probe execution.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultTimeout bounds probes with no configured timeout.
const DefaultTimeout = 15 * time.Second

// New builds a probe from configuration.
func New(cfg Config) (Probe, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	switch cfg.Type {
	case "wifi", "":
		return NewWiFiProbe(timeout), nil
	case "command":
		if cfg.Command == "" {
			return nil, fmt.Errorf("command probe requires a command")
		}
		return NewCommandProbe(cfg.Command, timeout), nil
	case "tcp":
		if cfg.Target == "" {
			return nil, fmt.Errorf("tcp probe requires a target address")
		}
		return NewTCPProbe(cfg.Target, timeout), nil
	case "http":
		if cfg.Target == "" {
			return nil, fmt.Errorf("http probe requires a target URL")
		}
		return NewHTTPProbe(cfg.Target, timeout), nil
	case "grpc":
		if cfg.Target == "" {
			return nil, fmt.Errorf("grpc probe requires a target address")
		}
		return NewGRPCProbe(cfg.Target, cfg.Service, timeout), nil
	default:
		return nil, fmt.Errorf("unknown probe type: %s", cfg.Type)
	}
}
