package probe

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCommandProbe_Healthy(t *testing.T) {
	p := NewCommandProbe("echo homenet", 5*time.Second)

	res := p.Check(context.Background())
	if !res.Healthy {
		t.Fatalf("expected healthy, got error %v", res.Err)
	}
	if res.Label != "homenet" {
		t.Errorf("expected label homenet, got %q", res.Label)
	}
}

func TestCommandProbe_NonZeroExit(t *testing.T) {
	p := NewCommandProbe("exit 3", 5*time.Second)

	res := p.Check(context.Background())
	if res.Healthy {
		t.Error("non-zero exit should be unhealthy")
	}
	if res.Err == nil {
		t.Error("expected the exit error to be reported")
	}
}

func TestCommandProbe_Timeout(t *testing.T) {
	p := NewCommandProbe("sleep 5", 50*time.Millisecond)

	start := time.Now()
	res := p.Check(context.Background())
	if res.Healthy {
		t.Error("a timed-out probe must report unhealthy")
	}
	if time.Since(start) > 2*time.Second {
		t.Error("probe did not honor its timeout")
	}
}

func TestCommandProbe_TimeoutWithForkedChild(t *testing.T) {
	// The shell forks here and the backgrounded child inherits stdout.
	// Killing the shell at the deadline must still release the probe
	// instead of waiting for the pipe to reach EOF.
	p := NewCommandProbe("sleep 5 & sleep 5", 50*time.Millisecond)

	start := time.Now()
	res := p.Check(context.Background())
	if res.Healthy {
		t.Error("a timed-out probe must report unhealthy")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("forked child held the probe past its timeout: %v", elapsed)
	}
}

func TestCommandProbe_LabelIsFirstLine(t *testing.T) {
	p := NewCommandProbe("printf 'first\\nsecond\\n'", 5*time.Second)

	res := p.Check(context.Background())
	if res.Label != "first" {
		t.Errorf("expected first line as label, got %q", res.Label)
	}
}

func TestTCPProbe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	p := NewTCPProbe(ln.Addr().String(), 2*time.Second)
	if res := p.Check(context.Background()); !res.Healthy {
		t.Errorf("expected healthy against live listener, got %v", res.Err)
	}

	addr := ln.Addr().String()
	ln.Close()
	p = NewTCPProbe(addr, 500*time.Millisecond)
	if res := p.Check(context.Background()); res.Healthy {
		t.Error("expected unhealthy against closed listener")
	}
}

func TestHTTPProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewHTTPProbe(srv.URL, 2*time.Second)
	if res := p.Check(context.Background()); !res.Healthy {
		t.Errorf("expected healthy, got %v", res.Err)
	}
}

func TestHTTPProbe_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewHTTPProbe(srv.URL, 2*time.Second)
	if res := p.Check(context.Background()); res.Healthy {
		t.Error("5xx response should be unhealthy")
	}
}

func TestNew_SelectsProbe(t *testing.T) {
	cases := []struct {
		cfg  Config
		name string
	}{
		{Config{Type: "wifi"}, "wifi"},
		{Config{}, "wifi"},
		{Config{Type: "command", Command: "true"}, "command"},
		{Config{Type: "tcp", Target: "127.0.0.1:1"}, "tcp"},
		{Config{Type: "http", Target: "http://127.0.0.1:1"}, "http"},
		{Config{Type: "grpc", Target: "127.0.0.1:1"}, "grpc"},
	}

	for _, c := range cases {
		p, err := New(c.cfg)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", c.cfg.Type, err)
		}
		if p.Name() != c.name {
			t.Errorf("New(%q) built %s", c.cfg.Type, p.Name())
		}
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := New(Config{Type: "carrier-pigeon"}); err == nil {
		t.Error("expected error for unknown probe type")
	}
	if _, err := New(Config{Type: "command"}); err == nil {
		t.Error("command probe without a command should fail")
	}
	if _, err := New(Config{Type: "tcp"}); err == nil {
		t.Error("tcp probe without a target should fail")
	}
}
