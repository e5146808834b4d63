package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hasec/netwatch/internal/control"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the persisted failure counter",
	Long: `reset removes the stored consecutive-failure count, returning the watchdog
to the healthy state. Pair it with a boot-time unit when the counter lives in
storage that survives reboots.`,
	Run: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)

	store, cleanup, err := control.OpenStore(cfg)
	if err != nil {
		slog.Error("Failed to open counter store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := store.Clear(context.Background()); err != nil {
		slog.Error("Failed to clear failure count", "error", err)
		os.Exit(1)
	}

	fmt.Println("Failure counter cleared")
}
