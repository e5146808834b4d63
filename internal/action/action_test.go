package action

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCommandAction_Invoke(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "ran")
	a := NewCommandAction("touch " + marker)

	if err := a.Invoke(context.Background()); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Error("expected the command to have run")
	}
}

func TestCommandAction_LaunchFailure(t *testing.T) {
	a := NewCommandAction("exit 7")
	if err := a.Invoke(context.Background()); err == nil {
		t.Error("expected error from failing command")
	}
}

func TestFromCommand(t *testing.T) {
	if _, ok := FromCommand("bounded", "").(*NoopAction); !ok {
		t.Error("empty command should build a noop action")
	}
	if _, ok := FromCommand("bounded", "true").(*CommandAction); !ok {
		t.Error("non-empty command should build a command action")
	}
}

func TestNoopAction_Invoke(t *testing.T) {
	a := NewNoopAction("escalated")
	if err := a.Invoke(context.Background()); err != nil {
		t.Errorf("noop should never fail: %v", err)
	}
	if a.Describe() != "noop:escalated" {
		t.Errorf("unexpected description: %s", a.Describe())
	}
}
