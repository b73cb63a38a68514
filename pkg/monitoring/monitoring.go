// Package monitoring implements the liveness-monitoring capability
// on top of pkg/filelock: token acquisition (liveness = held lock),
// monitor observation (state probe), and cleaner acquisition (a
// host-exclusive lock scoped to reclaiming a dead Node's resources).
package monitoring

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/cuemby/nodefabric/pkg/filelock"
)

// State is the liveness state reported by Monitor.State.
type State int

const (
	StateDoesNotExist State = iota
	StateAlive
	StateDead
)

// Builder constructs a Token, Monitor or Cleaner keyed by name under a
// monitoring directory.
type Builder struct {
	Dir  string
	Name string
}

// NewBuilder returns a Builder for the monitoring artifact Name under
// Dir (conventionally Config.MonitoringDir()).
func NewBuilder(dir, name string) *Builder {
	return &Builder{Dir: dir, Name: name}
}

func (b *Builder) path() string {
	return filepath.Join(b.Dir, b.Name)
}

// Token is the held monitoring lock whose existence signals liveness to
// peers. Released on Close (clean exit) or abandoned by the kernel on
// process death.
type Token struct {
	lock *filelock.Lock
}

// Token creates and acquires the monitoring token for this name. A
// token already held by a live process is reported as
// TokenAlreadyExists — creating a second token for the same NodeId is a
// programmer error, since NodeIds are unique for the fabric's lifetime.
func (b *Builder) Token() (*Token, error) {
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return nil, &TokenError{Kind: TokenInternalError, Err: err}
	}

	lock, err := filelock.Create(b.path())
	if err != nil {
		if os.IsPermission(err) {
			return nil, &TokenError{Kind: TokenInsufficientPermissions, Err: err}
		}
		return nil, &TokenError{Kind: TokenInternalError, Err: err}
	}

	if err := lock.TryLock(); err != nil {
		_ = lock.Close()
		if errors.Is(err, filelock.ErrAlreadyLocked) {
			return nil, &TokenError{Kind: TokenAlreadyExists, Err: err}
		}
		return nil, &TokenError{Kind: TokenInternalError, Err: err}
	}

	return &Token{lock: lock}, nil
}

// Close releases the token, making the owning NodeId observably dead to
// peers (the file remains, but its lock is free).
func (t *Token) Close() error {
	if t == nil || t.lock == nil {
		return nil
	}
	return t.lock.Close()
}

// Monitor is a read-only observer of a peer's token state.
type Monitor struct {
	path string
}

// Monitor builds a Monitor for this name, after confirming the
// monitoring directory itself is still readable. A missing directory is
// not an error here — it just means no token has ever been created
// under it, which State will report as StateDoesNotExist. Unlike Stat,
// opening the directory actually exercises its own permission bits
// rather than just its parent's, which is what a caller locked out of
// the fabric root needs reported.
func (b *Builder) Monitor() (*Monitor, error) {
	f, err := os.Open(b.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return &Monitor{path: b.path()}, nil
		}
		if os.IsPermission(err) {
			return nil, &MonitorError{Kind: MonitorInsufficientPermissions, Err: err}
		}
		return nil, &MonitorError{Kind: MonitorInternalError, Err: err}
	}
	f.Close()
	return &Monitor{path: b.path()}, nil
}

// State reports the liveness of the monitored NodeId.
func (m *Monitor) State() (State, error) {
	s, err := filelock.Probe(m.path)
	if err != nil {
		return StateDoesNotExist, &StateError{Kind: StateInternalError, Err: err}
	}
	switch s {
	case filelock.StateAbsent:
		return StateDoesNotExist, nil
	case filelock.StateAlive:
		return StateAlive, nil
	default:
		return StateDead, nil
	}
}

// cleaningSuffix names the sibling marker file whose atomic, exclusive
// creation (O_EXCL) is the actual cleaner mutex. flock contention alone
// can't disambiguate "a live owner holds this" from "another cleaner is
// mid-reap on this same dead id", because both look identical to a
// non-blocking flock attempt; an O_EXCL create is a single atomic
// syscall with no such ambiguity — exactly one caller ever wins it.
const cleaningSuffix = ".cleaning"

// Cleaner is a host-exclusive lock authorizing reclamation of a dead
// Node's artifacts. At most one process may hold it for a given name at
// a time.
type Cleaner struct {
	path       string
	markerPath string
}

// Cleaner attempts to acquire the cleaner lock for this name. It first
// confirms the id is dead via the same liveness probe Monitor.State
// uses, then races for the marker file; only the racer that wins the
// O_EXCL create proceeds.
func (b *Builder) Cleaner() (*Cleaner, error) {
	path := b.path()

	state, err := filelock.Probe(path)
	if err != nil {
		return nil, &CleanerError{Kind: CleanerInternalError, Err: err}
	}
	switch state {
	case filelock.StateAbsent:
		return nil, &CleanerError{Kind: CleanerDoesNotExist, Err: os.ErrNotExist}
	case filelock.StateAlive:
		return nil, &CleanerError{Kind: CleanerInstanceStillAlive, Err: errors.New("token is still held by a live instance")}
	}

	markerPath := path + cleaningSuffix
	f, err := os.OpenFile(markerPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, &CleanerError{Kind: CleanerAlreadyOwned, Err: err}
		}
		return nil, &CleanerError{Kind: CleanerInternalError, Err: err}
	}
	_ = f.Close()

	return &Cleaner{path: path, markerPath: markerPath}, nil
}

// Release removes the monitoring token file (completing the reap) and
// the cleaner's own marker file. Safe to call exactly once per
// successful Cleaner acquisition.
func (c *Cleaner) Release() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.Remove(c.markerPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ListCfg lists the monitoring names registered under dir.
func ListCfg(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
