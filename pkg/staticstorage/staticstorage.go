// Package staticstorage implements a capability for named,
// read-only-after-create blobs living in a directory
// keyed by (fabric config, NodeId). The Node writes exactly one artifact
// named "node" per NodeId; creators of services owned by that Node may
// add sibling artifacts in the same directory.
//
// "has_ownership" in the original design distinguishes artifacts owned
// by the filesystem (survive handle closure, removed only by the
// cleanup protocol) from artifacts scoped to a single handle's lifetime.
// Only the filesystem-owned flavor is needed by the Node's own "node"
// artifact; it is modeled here as a bool threaded through Create/Open
// purely for documentation of intent, since this package never removes
// a file on handle Close regardless of the flag — removal is always an
// explicit, cleanup-protocol-driven act.
package staticstorage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Builder creates or opens a single named artifact under Dir.
type Builder struct {
	Dir          string
	Name         string
	HasOwnership bool
}

// NewBuilder returns a Builder for the artifact Name under Dir.
func NewBuilder(dir, name string, hasOwnership bool) *Builder {
	return &Builder{Dir: dir, Name: name, HasOwnership: hasOwnership}
}

func (b *Builder) path() string {
	return filepath.Join(b.Dir, b.Name)
}

// Artifact is a handle to an opened (read) or just-created static
// storage blob.
type Artifact struct {
	path string
	size int64
}

// Len returns the artifact's advertised length in bytes.
func (a *Artifact) Len() int64 { return a.size }

// Read reads the full artifact content into a freshly allocated buffer.
func (a *Artifact) Read() ([]byte, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, fmt.Errorf("staticstorage: read %s: %w", a.path, err)
	}
	return data, nil
}

// Create writes data as a brand-new artifact. The write is performed
// under an exclusive advisory lock so a concurrent Open sees the file
// either absent or fully written — never partially written — by
// classifying a lock-contended open as Corrupted rather than racing on
// partial content.
func (b *Builder) Create(data []byte) error {
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return &CreateError{Kind: CreateInternalError, Err: err}
	}

	path := b.path()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return &CreateError{Kind: CreateAlreadyExists, Err: err}
		}
		if os.IsPermission(err) {
			return &CreateError{Kind: CreateInsufficientPermissions, Err: err}
		}
		return &CreateError{Kind: CreateInternalError, Err: err}
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = os.Remove(path)
		return &CreateError{Kind: CreateInternalError, Err: err}
	}
	defer unix.Flock(int(f.Fd()), unix.LOCK_UN)

	if _, err := f.Write(data); err != nil {
		_ = os.Remove(path)
		return &CreateError{Kind: CreateInternalError, Err: err}
	}
	if err := f.Sync(); err != nil {
		return &CreateError{Kind: CreateInternalError, Err: err}
	}
	return nil
}

// Open opens the artifact read-only. A return of (nil, nil) means the
// artifact does not exist, mapped by callers to Option::None. A locked
// artifact (a peer still mid-Create) is reported as a Corrupted
// OpenError — a half-created peer is treated as corruption rather than
// a transient condition, since the two are indistinguishable from the
// outside.
func (b *Builder) Open() (*Artifact, error) {
	path := b.path()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		if os.IsPermission(err) {
			return nil, &OpenError{Kind: OpenRead, Err: err}
		}
		return nil, &OpenError{Kind: OpenInternalError, Err: err}
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_SH|unix.LOCK_NB); err != nil {
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, &OpenError{Kind: OpenCorrupted, Err: fmt.Errorf("artifact %s is locked by its creator", path)}
		}
		return nil, &OpenError{Kind: OpenInternalError, Err: err}
	}
	defer unix.Flock(int(f.Fd()), unix.LOCK_UN)

	info, err := f.Stat()
	if err != nil {
		return nil, &OpenError{Kind: OpenInternalError, Err: err}
	}

	return &Artifact{path: path, size: info.Size()}, nil
}

// ListCfg lists the artifact names present directly under dir. Used by
// the cleanup protocol's acquire_all_node_detail_storages step; the
// enumerator lists the monitoring directory itself (pkg/node's List).
func ListCfg(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		if os.IsPermission(err) {
			return nil, &ListError{Kind: ListInsufficientPermissions, Err: err}
		}
		return nil, &ListError{Kind: ListInternalError, Err: err}
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

// RemoveCfg removes a single named artifact from dir.
func RemoveCfg(dir, name string) error {
	path := filepath.Join(dir, name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		if os.IsPermission(err) {
			return &RemoveError{Kind: RemoveInsufficientPermissions, Err: err}
		}
		return &RemoveError{Kind: RemoveInternalError, Err: err}
	}
	return nil
}

// RemovePathHint removes the directory (or file) at path; a directory
// must already be empty. Used by the cleanup protocol to remove the
// now-empty per-Node details directory.
func RemovePathHint(path string) error {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		if os.IsPermission(err) {
			return &RemoveError{Kind: RemoveInsufficientPermissions, Err: err}
		}
		return &RemoveError{Kind: RemoveInternalError, Err: err}
	}
	return nil
}
