// Package redis implements the counter store on a Redis instance, for
// appliances that already run a broker/cache container and want the count
// shared across processes.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hasec/netwatch/internal/infra/storage"
)

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	// KeyPrefix namespaces the counter and lease keys. Default "netwatch".
	KeyPrefix string `yaml:"key_prefix"`
}

// Store wraps Redis operations for the counter slot.
type Store struct {
	rdb    *redis.Client
	prefix string
}

// NewStore creates a new Redis-backed counter store.
func NewStore(cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "netwatch"
	}

	return &Store{rdb: rdb, prefix: prefix}, nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) counterKey() string {
	return fmt.Sprintf("%s:failure_count", s.prefix)
}

func (s *Store) lockKey() string {
	return fmt.Sprintf("%s:cycle_lock", s.prefix)
}

// Read returns the stored count, 0 when the key is absent.
func (s *Store) Read(ctx context.Context) (int, error) {
	val, err := s.rdb.Get(ctx, s.counterKey()).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter key: %w", err)
	}

	count, err := strconv.Atoi(val)
	if err != nil || count < 0 {
		return 0, fmt.Errorf("%w: %q in %s", storage.ErrCorrupt, val, s.counterKey())
	}
	return count, nil
}

// Write sets the counter key. SET is atomic on the Redis side.
func (s *Store) Write(ctx context.Context, count int) error {
	if err := s.rdb.Set(ctx, s.counterKey(), strconv.Itoa(count), 0).Err(); err != nil {
		return fmt.Errorf("failed to write counter key: %w", err)
	}
	return nil
}

// Clear deletes the counter key.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.counterKey()).Err(); err != nil {
		return fmt.Errorf("failed to clear counter key: %w", err)
	}
	return nil
}

// TryLock takes a SetNX lease with the given TTL. The TTL bounds how long a
// crashed cycle can block its successors.
func (s *Store) TryLock(ctx context.Context, ttl time.Duration) error {
	ok, err := s.rdb.SetNX(ctx, s.lockKey(), "locked", ttl).Result()
	if err != nil {
		return fmt.Errorf("setnx failed: %w", err)
	}
	if !ok {
		return storage.ErrLockHeld
	}
	return nil
}

// Unlock releases the lease.
func (s *Store) Unlock(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.lockKey()).Err(); err != nil {
		return fmt.Errorf("failed to release lease: %w", err)
	}
	return nil
}
