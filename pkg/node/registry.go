package node

import (
	"sync"

	"github.com/google/uuid"

	"github.com/cuemby/nodefabric/internal/fatal"
)

type serviceEntry struct {
	handle   interface{}
	refcount int
}

// RegisteredServices is the per-process, refcounted directory of
// services opened through a Node. Mutated under a
// single lock; the lock is briefly released across the open callback
// in AddOr to avoid serializing unrelated opens.
type RegisteredServices struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*serviceEntry
}

// NewRegisteredServices returns an empty table.
func NewRegisteredServices() *RegisteredServices {
	return &RegisteredServices{entries: make(map[uuid.UUID]*serviceEntry)}
}

// Add inserts a brand-new entry with refcount 1. A pre-existing entry
// for id is a programmer error and is fatal.
func (r *RegisteredServices) Add(id uuid.UUID, handle interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addLocked(id, handle)
}

func (r *RegisteredServices) addLocked(id uuid.UUID, handle interface{}) {
	if _, exists := r.entries[id]; exists {
		fatal.Panicf(nodeLog(), "RegisteredServices.Add: entry already exists for %s", id)
	}
	r.entries[id] = &serviceEntry{handle: handle, refcount: 1}
}

// AddOr increments the refcount if id is already present; otherwise it
// releases the lock, invokes openFn (which may block on I/O), then
// re-acquires the lock to insert the result.
//
// Releasing the lock here lets two concurrent opens of the same unseen
// UUID both call openFn, and the reference design then fatals on the
// second add. This implementation instead merges: if, after
// re-acquiring the lock, the entry now exists (another goroutine's
// openFn finished first), the result is merged by closing this call's
// own handle and incrementing the winner's refcount, rather than
// panicking.
func (r *RegisteredServices) AddOr(id uuid.UUID, openFn func() (interface{}, error), closeFn func(interface{})) (interface{}, error) {
	r.mu.Lock()
	if entry, exists := r.entries[id]; exists {
		entry.refcount++
		handle := entry.handle
		r.mu.Unlock()
		return handle, nil
	}
	r.mu.Unlock()

	handle, err := openFn()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, exists := r.entries[id]; exists {
		entry.refcount++
		if closeFn != nil {
			closeFn(handle)
		}
		return entry.handle, nil
	}
	r.entries[id] = &serviceEntry{handle: handle, refcount: 1}
	return handle, nil
}

// Remove decrements the refcount for id; when it reaches zero, cleanupFn
// is invoked exactly once and the entry is removed. A missing entry is
// a programmer error.
func (r *RegisteredServices) Remove(id uuid.UUID, cleanupFn func(handle interface{})) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.entries[id]
	if !exists {
		fatal.Panicf(nodeLog(), "RegisteredServices.Remove: no entry for %s", id)
	}

	entry.refcount--
	if entry.refcount <= 0 {
		delete(r.entries, id)
		if cleanupFn != nil {
			cleanupFn(entry.handle)
		}
	}
}

// Refcount returns the current refcount for id, or 0 if absent.
func (r *RegisteredServices) Refcount(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, exists := r.entries[id]; exists {
		return entry.refcount
	}
	return 0
}

// Len returns the number of distinct services currently registered.
func (r *RegisteredServices) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
