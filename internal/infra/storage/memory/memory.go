// Package memory provides in-memory storage, used by tests and ephemeral runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hasec/netwatch/internal/core/domain"
	"github.com/hasec/netwatch/internal/infra/storage"
)

type MemoryStorage struct {
	count   int
	present bool
	locked  bool
	history []*domain.CycleRecord
	mu      sync.Mutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// -----------------------------------------------------------------------------
// Counter Store
// -----------------------------------------------------------------------------

type CounterStore struct {
	store *MemoryStorage
}

func NewCounterStore(store *MemoryStorage) *CounterStore {
	return &CounterStore{store: store}
}

func (s *CounterStore) Read(ctx context.Context) (int, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if !s.store.present {
		return 0, nil
	}
	return s.store.count, nil
}

func (s *CounterStore) Write(ctx context.Context, count int) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.count = count
	s.store.present = true
	return nil
}

func (s *CounterStore) Clear(ctx context.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.count = 0
	s.store.present = false
	return nil
}

func (s *CounterStore) TryLock(ctx context.Context, ttl time.Duration) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if s.store.locked {
		return storage.ErrLockHeld
	}
	s.store.locked = true
	return nil
}

func (s *CounterStore) Unlock(ctx context.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.locked = false
	return nil
}

// -----------------------------------------------------------------------------
// History Repository
// -----------------------------------------------------------------------------

type HistoryRepo struct {
	store *MemoryStorage
}

func NewHistoryRepo(store *MemoryStorage) *HistoryRepo {
	return &HistoryRepo{store: store}
}

func (r *HistoryRepo) Add(ctx context.Context, rec *domain.CycleRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.history = append(r.store.history, rec)
	return nil
}

func (r *HistoryRepo) Recent(ctx context.Context, limit int) ([]*domain.CycleRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]*domain.CycleRecord, len(r.store.history))
	copy(out, r.store.history)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *HistoryRepo) DeleteOlderThan(ctx context.Context, unix int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.history[:0]
	for _, rec := range r.store.history {
		if rec.CreatedAt >= unix {
			kept = append(kept, rec)
		}
	}
	r.store.history = kept
	return nil
}

func (r *HistoryRepo) Count(ctx context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return len(r.store.history), nil
}
