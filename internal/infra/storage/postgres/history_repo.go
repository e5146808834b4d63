package postgres

import (
	"context"
	"fmt"

	"github.com/hasec/netwatch/internal/core/domain"
)

// HistoryRepo implements storage.HistoryRepository using PostgreSQL.
type HistoryRepo struct {
	db *DB
}

// NewHistoryRepo creates a new PostgreSQL cycle history repository.
func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Add appends a cycle record.
func (r *HistoryRepo) Add(ctx context.Context, rec *domain.CycleRecord) error {
	query := `
		INSERT INTO cycle_history (id, outcome, count, label, error_msg, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(
		ctx,
		query,
		rec.ID,
		string(rec.Outcome),
		rec.Count,
		rec.Label,
		rec.Error,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add cycle record: %w", err)
	}
	return nil
}

// Recent returns the newest records, newest first.
func (r *HistoryRepo) Recent(ctx context.Context, limit int) ([]*domain.CycleRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, outcome, count, label, error_msg, created_at
		FROM cycle_history
		ORDER BY created_at DESC
		LIMIT $1
	`
	var rows []*domain.CycleRecord
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query cycle history: %w", err)
	}
	return rows, nil
}

// DeleteOlderThan removes records created before the given unix time.
func (r *HistoryRepo) DeleteOlderThan(ctx context.Context, unix int64) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM cycle_history WHERE created_at < $1`, unix); err != nil {
		return fmt.Errorf("failed to prune cycle history: %w", err)
	}
	return nil
}

// Count returns the number of stored records.
func (r *HistoryRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM cycle_history`); err != nil {
		return 0, fmt.Errorf("failed to count cycle history: %w", err)
	}
	return count, nil
}
