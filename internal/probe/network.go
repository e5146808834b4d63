package probe

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/hasec/netwatch/internal/core/domain"
)

// TCPProbe dials a TCP endpoint within the timeout.
type TCPProbe struct {
	target  string
	timeout time.Duration
}

// NewTCPProbe creates a TCP dial probe.
func NewTCPProbe(target string, timeout time.Duration) *TCPProbe {
	return &TCPProbe{target: target, timeout: timeout}
}

func (p *TCPProbe) Name() string { return "tcp" }

func (p *TCPProbe) Check(ctx context.Context) domain.ProbeResult {
	d := net.Dialer{Timeout: p.timeout}
	conn, err := d.DialContext(ctx, "tcp", p.target)
	if err != nil {
		return domain.Unhealthy(fmt.Errorf("dial %s: %w", p.target, err))
	}
	_ = conn.Close()
	return domain.ProbeResult{Healthy: true, Label: p.target}
}

// HTTPProbe issues a GET and treats any 2xx response as healthy.
type HTTPProbe struct {
	url    string
	client *http.Client
}

// NewHTTPProbe creates an HTTP GET probe.
func NewHTTPProbe(url string, timeout time.Duration) *HTTPProbe {
	return &HTTPProbe{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProbe) Name() string { return "http" }

func (p *HTTPProbe) Check(ctx context.Context) domain.ProbeResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return domain.Unhealthy(fmt.Errorf("build request: %w", err))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.Unhealthy(fmt.Errorf("get %s: %w", p.url, err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Unhealthy(fmt.Errorf("get %s: status %d", p.url, resp.StatusCode))
	}
	return domain.ProbeResult{Healthy: true, Label: p.url}
}
