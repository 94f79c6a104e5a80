// Package runlock guards against concurrent pipeline runs against the same
// service instance with a file lock.
package runlock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock is a non-blocking single-instance lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// New builds a lock rooted in dir.
func New(dir string) *Lock {
	path := filepath.Join(dir, "easel.lock")
	return &Lock{path: path, lock: flock.New(path)}
}

// Path reports the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock or fails immediately when another run holds it.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("ensure lock directory: %w", err)
	}
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another run is already active (lock %s)", l.path)
	}
	return nil
}

// Release drops the lock. Safe to call when not held.
func (l *Lock) Release() error {
	return l.lock.Unlock()
}
