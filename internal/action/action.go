// Package action defines the recovery side effects the supervisor can take.
package action

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// Action is a fire-and-forget remediation. Invoke reports only whether the
// action could be launched; its effect is verified by the next cycle's probe,
// never by the supervisor itself.
type Action interface {
	Invoke(ctx context.Context) error
	Describe() string
}

// launchTimeout bounds how long Invoke waits for the command to start and
// finish. Escalated actions like reboot may never return; the deadline keeps
// the cycle bounded either way.
const launchTimeout = 2 * time.Minute

// CommandAction shells out to a host command, e.g. restarting the networking
// service or rebooting the host.
type CommandAction struct {
	command string
}

// NewCommandAction creates a command-backed recovery action.
func NewCommandAction(command string) *CommandAction {
	return &CommandAction{command: command}
}

func (a *CommandAction) Describe() string { return a.command }

// Invoke launches the command. A non-zero exit is reported but carries no
// retry semantics: the next scheduled tick re-attempts if the probe still
// fails.
func (a *CommandAction) Invoke(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, launchTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", a.command)
	cmd.WaitDelay = time.Second
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("recovery command %q: %w", a.command, err)
	}
	return nil
}

// NoopAction is used when no action is configured; it only logs.
type NoopAction struct {
	name string
}

// NewNoopAction creates a logging-only action.
func NewNoopAction(name string) *NoopAction {
	return &NoopAction{name: name}
}

func (a *NoopAction) Describe() string { return "noop:" + a.name }

func (a *NoopAction) Invoke(ctx context.Context) error {
	slog.Warn("No recovery action configured", "action", a.name)
	return nil
}

// FromCommand builds a command action, or a noop when the command is empty.
func FromCommand(name, command string) Action {
	if command == "" {
		return NewNoopAction(name)
	}
	return NewCommandAction(command)
}
