package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hasec/netwatch/internal/control"
	"github.com/hasec/netwatch/internal/infra/storage/postgres"
	"github.com/hasec/netwatch/internal/supervisor"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current watchdog state and recent cycle history",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	ctx := context.Background()

	store, cleanup, err := control.OpenStore(cfg)
	if err != nil {
		slog.Error("Failed to open counter store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	count, err := store.Read(ctx)
	if err != nil {
		slog.Error("Failed to read failure count", "error", err)
		os.Exit(1)
	}

	state := supervisor.DeriveState(count, cfg.Recovery.MaxAttempts)
	fmt.Printf("Backend:       %s\n", cfg.Store.Backend)
	fmt.Printf("Failure count: %d / %d\n", count, cfg.Recovery.MaxAttempts)
	fmt.Printf("State:         %s\n", supervisor.StateDescription(state))

	if !cfg.History.Enabled || cfg.Database.URL == "" {
		return
	}

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	records, err := postgres.NewHistoryRepo(db).Recent(ctx, 10)
	if err != nil {
		slog.Error("Failed to query cycle history", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "TIME\tOUTCOME\tCOUNT\tLABEL\tERROR")
	for _, rec := range records {
		ts := time.Unix(rec.CreatedAt, 0).Format(time.RFC3339)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			ts, rec.Outcome, rec.Count, rec.Label, rec.Error)
	}
	_ = w.Flush()
}
