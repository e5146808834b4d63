package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hasec/netwatch/internal/control"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single supervisor cycle (for cron-style schedulers)",
	Long: `check probes once, updates the failure counter and takes the appropriate
recovery action, then exits. All state crosses invocations through the
configured counter store, so this is the mode to wire into cron.`,
	Run: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)

	app, err := control.New(cfg)
	if err != nil {
		slog.Error("Failed to initialize watchdog", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := app.Supervisor().Cycle(ctx)
	if err != nil {
		slog.Error("Cycle aborted", "error", err)
		_ = app.Close()
		os.Exit(1)
	}
	_ = app.Close()

	fmt.Printf("%s: %s\n", res.Outcome, res.Summary())
}
