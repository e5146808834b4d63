package probe

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/hasec/netwatch/internal/core/domain"
)

// waitDelay releases Run's pipe wait shortly after the deadline kill. The
// shell may fork, and a surviving child keeping stdout open must not hold
// the probe past its timeout.
const waitDelay = time.Second

// CommandProbe runs a shell command; exit status zero means healthy.
// The first line of stdout becomes the diagnostic label.
type CommandProbe struct {
	command string
	timeout time.Duration
}

// NewCommandProbe creates a command probe.
func NewCommandProbe(command string, timeout time.Duration) *CommandProbe {
	return &CommandProbe{command: command, timeout: timeout}
}

func (p *CommandProbe) Name() string { return "command" }

// Check runs the command under the probe timeout.
func (p *CommandProbe) Check(ctx context.Context) domain.ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", p.command)
	cmd.WaitDelay = waitDelay
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	label := firstLine(stdout.String())
	if err != nil {
		return domain.ProbeResult{Healthy: false, Label: label, Err: err}
	}
	return domain.ProbeResult{Healthy: true, Label: label}
}

// WiFiProbe checks 802.11 association: it is healthy exactly when the
// interface reports an SSID, which also becomes the label.
type WiFiProbe struct {
	inner *CommandProbe
}

// NewWiFiProbe creates the reference WiFi association probe.
func NewWiFiProbe(timeout time.Duration) *WiFiProbe {
	// iwgetid exits non-zero when not associated
	return &WiFiProbe{inner: NewCommandProbe("iwgetid -r", timeout)}
}

func (p *WiFiProbe) Name() string { return "wifi" }

func (p *WiFiProbe) Check(ctx context.Context) domain.ProbeResult {
	return p.inner.Check(ctx)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
