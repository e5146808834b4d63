package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/hasec/netwatch/internal/infra/storage"
)

// Pruner deletes old cycle history based on the retention policy.
type Pruner struct {
	retention time.Duration
	history   storage.HistoryRepository
}

// NewPruner creates a new Pruner worker.
func NewPruner(retention time.Duration, history storage.HistoryRepository) *Pruner {
	return &Pruner{
		retention: retention,
		history:   history,
	}
}

// Start runs the pruner loop.
func (p *Pruner) Start(ctx context.Context) {
	if p.retention <= 0 || p.history == nil {
		return // Retention disabled
	}

	// Check at 10% of the retention period, clamped to [1m, 1h]
	interval := min(p.retention/10, 1*time.Hour)
	interval = max(interval, 1*time.Minute)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial prune
	p.prune(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *Pruner) prune(ctx context.Context) {
	threshold := time.Now().Add(-p.retention).Unix()

	if err := p.history.DeleteOlderThan(ctx, threshold); err != nil {
		slog.Error("Failed to prune cycle history", "error", err)
	}
}
