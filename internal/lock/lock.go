// Package lock provides file-based locking so concurrent iftool runs do not
// write the same destination at once.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// ErrLocked indicates another process holds the lock.
var ErrLocked = errors.New("lock held by another process")

// Lock is an advisory flock on a file below the state directory.
type Lock struct {
	name string
	path string
	file *os.File
}

// New creates a lock called name in stateDir. Nothing is touched until
// Acquire.
func New(stateDir, name string) *Lock {
	return &Lock{
		name: name,
		path: filepath.Join(stateDir, "locks", name+".lock"),
	}
}

// ForDestination returns a lock name for a destination directory.
func ForDestination(destination string) string {
	clean := strings.Trim(filepath.Clean(destination), string(filepath.Separator))
	if clean == "" || clean == "." {
		return "root"
	}
	return strings.ReplaceAll(clean, string(filepath.Separator), "_")
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		l.file = nil
		if errors.Is(err, unix.EWOULDBLOCK) {
			return fmt.Errorf("%w: %s (another run is writing this destination)", ErrLocked, l.name)
		}
		return fmt.Errorf("acquire lock: %w", err)
	}

	// PID for whoever finds the file.
	f.Truncate(0)
	f.Seek(0, 0)
	fmt.Fprintf(f, "%d\n", os.Getpid())

	l.file = f
	return nil
}

// Release drops the lock and removes the lock file. Releasing an unheld
// lock is a no-op.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}

	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		l.file.Close()
		l.file = nil
		return fmt.Errorf("release lock: %w", err)
	}

	l.file.Close()
	os.Remove(l.path)
	l.file = nil
	return nil
}

// WithLock runs fn while holding the named lock.
func WithLock(stateDir, name string, fn func() error) error {
	lock := New(stateDir, name)
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer lock.Release()

	return fn()
}
