// Package control assembles the watchdog from its configured parts and
// manages the long-running lifecycle.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/hasec/netwatch/internal/action"
	"github.com/hasec/netwatch/internal/core/config"
	"github.com/hasec/netwatch/internal/core/worker"
	"github.com/hasec/netwatch/internal/health"
	redisstore "github.com/hasec/netwatch/internal/infra/redis"
	"github.com/hasec/netwatch/internal/infra/storage"
	filestore "github.com/hasec/netwatch/internal/infra/storage/file"
	"github.com/hasec/netwatch/internal/infra/storage/memory"
	"github.com/hasec/netwatch/internal/infra/storage/postgres"
	"github.com/hasec/netwatch/internal/probe"
	"github.com/hasec/netwatch/internal/supervisor"
)

// Watchdog is the main application struct managing the supervisor lifecycle.
type Watchdog struct {
	cfg          *config.AppConfig
	sup          *supervisor.Supervisor
	healthServer *health.Server
	pruner       *worker.Pruner
	db           *postgres.DB
	redisStore   *redisstore.Store
	log          *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Watchdog with all dependencies initialized.
func New(cfg *config.AppConfig) (*Watchdog, error) {
	w := &Watchdog{cfg: cfg, log: slog.Default()}

	// 1. Counter store
	store, err := w.buildStore(cfg)
	if err != nil {
		return nil, err
	}

	// 2. Cycle history (needs the database)
	var history storage.HistoryRepository
	if cfg.History.Enabled {
		if w.db == nil {
			if cfg.Database.URL == "" {
				return nil, fmt.Errorf("history requires a database URL")
			}
			db, err := w.openDB(cfg)
			if err != nil {
				return nil, err
			}
			w.db = db
		}
		history = postgres.NewHistoryRepo(w.db)
	}

	// 3. Probe and recovery actions
	p, err := probe.New(cfg.Probe)
	if err != nil {
		return nil, fmt.Errorf("failed to build probe: %w", err)
	}
	bounded := action.FromCommand("bounded", cfg.Recovery.BoundedAction)
	escalated := action.FromCommand("escalated", cfg.Recovery.EscalatedAction)

	// 4. Supervisor
	opts := []supervisor.Option{
		supervisor.WithMaxAttempts(cfg.Recovery.MaxAttempts),
		supervisor.WithLeaseTTL(cfg.Recovery.LeaseTTL),
	}
	if history != nil {
		opts = append(opts, supervisor.WithHistory(history))
	}
	w.sup = supervisor.New(p, store, bounded, escalated, opts...)

	// 5. Health server and history pruner
	monitor := health.NewMonitor(store, history, cfg.Recovery.MaxAttempts)
	w.healthServer = health.NewServer(monitor, cfg.Server.Port)
	if history != nil && cfg.History.Retention > 0 {
		w.pruner = worker.NewPruner(cfg.History.Retention, history)
	}

	return w, nil
}

// Supervisor exposes the assembled supervisor for single-cycle invocations.
func (w *Watchdog) Supervisor() *supervisor.Supervisor {
	return w.sup
}

// Start launches the tick loop, health server and pruner.
func (w *Watchdog) Start(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.runLoop(ctx)
	}()

	if w.pruner != nil {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.pruner.Start(ctx)
		}()
	}

	go func() {
		if err := w.healthServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			w.log.Error("Health server failed", "error", err)
		}
	}()

	w.log.Info("Watchdog started",
		"interval", w.cfg.Interval,
		"max_attempts", w.cfg.Recovery.MaxAttempts,
		"store", w.cfg.Store.Backend,
		"probe", w.cfg.Probe.Type)
	return nil
}

// Stop shuts the watchdog down gracefully.
func (w *Watchdog) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := w.healthServer.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop health server: %w", err)
	}
	return w.Close()
}

// Close releases store connections. For one-shot invocations that never
// called Start; Stop calls it as its last step.
func (w *Watchdog) Close() error {
	if w.redisStore != nil {
		_ = w.redisStore.Close()
	}
	if w.db != nil {
		return w.db.Close()
	}
	return nil
}

// runLoop invokes one cycle per tick. The single loop is what guarantees
// non-overlapping runs in long-running mode; the store lease covers the case
// of a second process.
func (w *Watchdog) runLoop(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	// Initial cycle
	w.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.cycle(ctx)
		}
	}
}

// cycle wraps the supervisor so an aborted cycle is reported, never allowed
// to crash the loop.
func (w *Watchdog) cycle(ctx context.Context) {
	if _, err := w.sup.Cycle(ctx); err != nil {
		w.log.Error("Cycle aborted", "error", err)
	}
}

// OpenStore builds just the configured counter store, for one-shot CLI
// commands that inspect or reset the counter. The returned cleanup releases
// any connections.
func OpenStore(cfg *config.AppConfig) (storage.CounterStore, func(), error) {
	w := &Watchdog{cfg: cfg, log: slog.Default()}
	store, err := w.buildStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = w.Close() }, nil
}

func (w *Watchdog) buildStore(cfg *config.AppConfig) (storage.CounterStore, error) {
	switch cfg.Store.Backend {
	case "file", "":
		return filestore.New(cfg.Store.Path), nil
	case "memory":
		return memory.NewCounterStore(memory.NewMemoryStorage()), nil
	case "redis":
		s, err := redisstore.NewStore(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis store: %w", err)
		}
		w.redisStore = s
		return s, nil
	case "postgres":
		db, err := w.openDB(cfg)
		if err != nil {
			return nil, err
		}
		w.db = db
		return postgres.NewCounterStore(db, cfg.Store.Slot), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

func (w *Watchdog) openDB(cfg *config.AppConfig) (*postgres.DB, error) {
	db, err := postgres.NewDB(context.Background(), cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to init db: %w", err)
	}

	// Run migrations
	if err := goose.SetDialect("postgres"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := goose.Up(db.DB.DB, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}
	return db, nil
}
