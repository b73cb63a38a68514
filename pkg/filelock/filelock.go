// Package filelock implements the Monitoring backend's token, monitor and
// cleaner primitives on top of advisory BSD file locks (flock(2)).
//
// A token is a held exclusive lock on a regular file: while the owning
// process is alive, the kernel holds the lock open; when the process
// dies (however uncleanly), the kernel releases it automatically. A
// monitor probes liveness by attempting a non-blocking shared lock on
// the same file without holding it: success means nobody holds the
// exclusive lock (the owner is dead), EWOULDBLOCK means the owner is
// alive, and a missing file is reported as absent. Shared probes never
// contend with one another. Cleaner exclusivity is not built from these
// locks: pkg/monitoring uses Probe only for the cleaner's liveness check
// and takes a separate marker file for the cleaner itself.
package filelock

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// State is the liveness state reported by Probe.
type State int

const (
	// StateAbsent means no file exists at the given path.
	StateAbsent State = iota
	// StateAlive means the file exists and its lock is currently held.
	StateAlive
	// StateDead means the file exists but nothing holds its lock.
	StateDead
)

// ErrAlreadyLocked is returned by TryLock when another holder owns the lock.
var ErrAlreadyLocked = errors.New("filelock: already locked by another holder")

// Lock is a held or holdable advisory lock backed by a regular file.
type Lock struct {
	path string
	file *os.File
	held bool
}

// Create opens (creating if necessary) the lock file at path. The file
// is not locked until TryLock succeeds.
func Create(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("filelock: open %s: %w", path, err)
	}
	return &Lock{path: path, file: f}, nil
}

// TryLock attempts to acquire an exclusive, non-blocking lock. It
// returns ErrAlreadyLocked if another process or file descriptor holds
// the lock.
func (l *Lock) TryLock() error {
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		if errors.Is(err, unix.EWOULDBLOCK) {
			return ErrAlreadyLocked
		}
		return fmt.Errorf("filelock: flock %s: %w", l.path, err)
	}
	l.held = true
	return nil
}

// Mark replaces the content of the locked file with content. It fails
// if the lock is not held.
func (l *Lock) Mark(content []byte) error {
	if !l.held {
		return fmt.Errorf("filelock: mark %s: lock not held", l.path)
	}
	if err := l.file.Truncate(0); err != nil {
		return fmt.Errorf("filelock: truncate %s: %w", l.path, err)
	}
	if _, err := l.file.WriteAt(content, 0); err != nil {
		return fmt.Errorf("filelock: write %s: %w", l.path, err)
	}
	return l.file.Sync()
}

// Unlock releases the lock without closing the file.
func (l *Lock) Unlock() error {
	if !l.held {
		return nil
	}
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		return fmt.Errorf("filelock: unlock %s: %w", l.path, err)
	}
	l.held = false
	return nil
}

// Close unlocks (if held) and closes the underlying file descriptor.
// It does not remove the file.
func (l *Lock) Close() error {
	_ = l.Unlock()
	return l.file.Close()
}

// Remove closes the lock and removes the backing file. Intended for
// cleaner/token teardown once reclamation has completed.
func (l *Lock) Remove() error {
	if err := l.Close(); err != nil {
		return err
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("filelock: remove %s: %w", l.path, err)
	}
	return nil
}

// Probe reports the liveness state of the lock file at path without
// taking ownership of an existing lock: if the path is absent, it
// reports StateAbsent; otherwise it attempts a non-blocking shared
// lock, immediately releasing it on success, and reports StateDead (no
// exclusive owner) or StateAlive (EWOULDBLOCK, someone holds the
// exclusive lock). Concurrent probes of the same file take shared locks
// and so do not see one another as an owner.
func Probe(path string) (State, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return StateAbsent, nil
		}
		return StateAbsent, fmt.Errorf("filelock: open %s: %w", path, err)
	}
	defer f.Close()

	err = unix.Flock(int(f.Fd()), unix.LOCK_SH|unix.LOCK_NB)
	if err != nil {
		if errors.Is(err, unix.EWOULDBLOCK) {
			return StateAlive, nil
		}
		return StateAbsent, fmt.Errorf("filelock: probe flock %s: %w", path, err)
	}
	// We now hold the lock transiently; release it immediately, we were
	// only checking whether anyone else held it.
	_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
	return StateDead, nil
}

// Path returns the filesystem path backing this lock.
func (l *Lock) Path() string {
	return l.path
}
