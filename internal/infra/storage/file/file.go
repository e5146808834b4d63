// Package file implements the counter store on a single local file.
//
// The count lives as a decimal integer in one file, replaced atomically via
// a temp file and rename so a partial write can never be misread as a valid
// count. The default location is under the system temp directory: the count
// then also resets on host reboot, which keeps the escalation self-limiting
// when the terminal action is a reboot.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hasec/netwatch/internal/infra/storage"
)

// DefaultPath is the reference counter location.
var DefaultPath = filepath.Join(os.TempDir(), "netwatch_failures")

// Store persists the failure count in a file at Path.
type Store struct {
	path string
}

// New creates a file-backed counter store. An empty path selects DefaultPath.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Read returns the stored count, 0 when the file is absent.
func (s *Store) Read(ctx context.Context) (int, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter file: %w", err)
	}

	count, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || count < 0 {
		return 0, fmt.Errorf("%w: %q in %s", storage.ErrCorrupt, strings.TrimSpace(string(data)), s.path)
	}
	return count, nil
}

// Write replaces the counter file atomically.
func (s *Store) Write(ctx context.Context, count int) error {
	if count < 0 {
		return fmt.Errorf("refusing to write negative count %d", count)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create counter dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".netwatch-*")
	if err != nil {
		return fmt.Errorf("failed to create temp counter file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(strconv.Itoa(count) + "\n"); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write counter: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp counter file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace counter file: %w", err)
	}
	return nil
}

// Clear removes the counter file. Missing file is not an error.
func (s *Store) Clear(ctx context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear counter file: %w", err)
	}
	return nil
}

// TryLock takes a lease via an O_EXCL lock file next to the counter.
// A lock file older than ttl is treated as left behind by a crashed cycle
// and taken over.
func (s *Store) TryLock(ctx context.Context, ttl time.Duration) error {
	lock := s.lockPath()

	f, err := os.OpenFile(lock, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err == nil {
		_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())
		return f.Close()
	}
	if !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("failed to create lock file: %w", err)
	}

	info, statErr := os.Stat(lock)
	if statErr != nil {
		// Raced with the holder releasing; report held and let the next
		// tick retry.
		return storage.ErrLockHeld
	}
	if ttl > 0 && time.Since(info.ModTime()) > ttl {
		_ = os.Remove(lock)
		f, err := os.OpenFile(lock, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err != nil {
			return storage.ErrLockHeld
		}
		_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())
		return f.Close()
	}
	return storage.ErrLockHeld
}

// Unlock releases the lease.
func (s *Store) Unlock(ctx context.Context) error {
	err := os.Remove(s.lockPath())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

func (s *Store) lockPath() string {
	return s.path + ".lock"
}
