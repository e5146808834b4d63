package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hasec/netwatch/internal/infra/storage"
)

// CounterStore implements storage.CounterStore on a single-row table.
// Unlike the file and redis backends this one survives host reboots, so an
// operator pairing it with a reboot escalation should schedule `netwatch
// reset` at boot or accept repeated escalations.
type CounterStore struct {
	db   *DB
	slot string
}

// NewCounterStore creates a PostgreSQL counter store. The slot name keys the
// row so multiple watchdog instances can share one database.
func NewCounterStore(db *DB, slot string) *CounterStore {
	if slot == "" {
		slot = "default"
	}
	return &CounterStore{db: db, slot: slot}
}

// Read returns the stored count, 0 when no row exists.
func (s *CounterStore) Read(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT count FROM failure_counters WHERE slot = $1`, s.slot)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter row: %w", err)
	}
	if count < 0 {
		return 0, fmt.Errorf("%w: negative count %d for slot %s", storage.ErrCorrupt, count, s.slot)
	}
	return count, nil
}

// Write upserts the counter row.
func (s *CounterStore) Write(ctx context.Context, count int) error {
	query := `
		INSERT INTO failure_counters (slot, count, updated_at)
		VALUES ($1, $2, extract(epoch from now())::bigint)
		ON CONFLICT (slot) DO UPDATE
		SET count = EXCLUDED.count, updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, s.slot, count); err != nil {
		return fmt.Errorf("failed to write counter row: %w", err)
	}
	return nil
}

// Clear removes the counter row.
func (s *CounterStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM failure_counters WHERE slot = $1`, s.slot); err != nil {
		return fmt.Errorf("failed to clear counter row: %w", err)
	}
	return nil
}

// TryLock takes a session advisory lock derived from the slot name.
func (s *CounterStore) TryLock(ctx context.Context, ttl time.Duration) error {
	var ok bool
	err := s.db.GetContext(ctx, &ok,
		`SELECT pg_try_advisory_lock(hashtext('netwatch:' || $1))`, s.slot)
	if err != nil {
		return fmt.Errorf("failed to take advisory lock: %w", err)
	}
	if !ok {
		return storage.ErrLockHeld
	}
	return nil
}

// Unlock releases the advisory lock.
func (s *CounterStore) Unlock(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`SELECT pg_advisory_unlock(hashtext('netwatch:' || $1))`, s.slot); err != nil {
		return fmt.Errorf("failed to release advisory lock: %w", err)
	}
	return nil
}
