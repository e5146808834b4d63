package storage

import (
	"context"
	"errors"
	"time"

	"github.com/hasec/netwatch/internal/core/domain"
)

var (
	// ErrCorrupt is returned when the counter slot exists but its content
	// cannot be interpreted as a non-negative integer. Callers must not
	// treat this as "absent": acting on unknown state is worse than
	// skipping a cycle.
	ErrCorrupt = errors.New("counter store content is corrupt")

	// ErrLockHeld is returned by TryLock when another cycle owns the lease.
	ErrLockHeld = errors.New("counter store lease held by another cycle")
)

// CounterStore is the durable slot holding the consecutive-failure count.
// Read returns 0 when the slot is absent; absence is not an error.
type CounterStore interface {
	// Read returns the stored count, or 0 when no count is stored.
	Read(ctx context.Context) (int, error)

	// Write persists the count atomically.
	Write(ctx context.Context, count int) error

	// Clear removes the stored count. Clearing an absent slot is a no-op.
	Clear(ctx context.Context) error

	// TryLock takes a non-blocking lease around the read-modify-write so
	// accidentally overlapping ticks cannot double-consume the budget.
	// Returns ErrLockHeld without waiting when the lease is taken.
	TryLock(ctx context.Context, ttl time.Duration) error

	// Unlock releases the lease taken by TryLock.
	Unlock(ctx context.Context) error
}

// HistoryRepository persists per-cycle audit records.
type HistoryRepository interface {
	// Add appends a cycle record.
	Add(ctx context.Context, rec *domain.CycleRecord) error

	// Recent returns the newest records, newest first.
	Recent(ctx context.Context, limit int) ([]*domain.CycleRecord, error)

	// DeleteOlderThan removes records created before the given unix time.
	DeleteOlderThan(ctx context.Context, unix int64) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
}
