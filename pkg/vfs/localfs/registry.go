package localfs

import (
	"fmt"
	"sync"

	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

// Registry is the process-lifetime, bidirectional association between
// filesystem paths and protocol handles.
//
// Handles are minted from a monotonic counter: the mount root takes value 0
// at construction, every later path gets the next value the first time it is
// referenced. Entries are never removed; deleting a filesystem object does
// not retract its handle, so a stale handle keeps resolving to a path that
// no longer exists and callers discover the removal at use time.
//
// Both views of the bijection live behind a single RWMutex. Reads (Resolve)
// take the read lock; Intern takes the read lock for the fast path and
// upgrades to the write lock only when the path is unseen. The re-check
// under the write lock guarantees that two concurrent Intern calls for the
// same unseen path mint at most one handle.
type Registry struct {
	mu       sync.RWMutex
	byPath   map[string]vfs.Handle
	byHandle map[vfs.Handle]string
	next     uint64
}

// NewRegistry creates a registry seeded with root bound to handle 0.
func NewRegistry(root string) *Registry {
	r := &Registry{
		byPath:   make(map[string]vfs.Handle),
		byHandle: make(map[vfs.Handle]string),
	}
	r.byPath[root] = vfs.Handle(r.next)
	r.byHandle[vfs.Handle(r.next)] = root
	r.next++
	return r
}

// Root returns the handle bound to the mount root.
func (r *Registry) Root() vfs.Handle {
	return vfs.Handle(0)
}

// Resolve returns the path a handle was minted for.
//
// Returns ErrNotFound for handles this registry never minted. That never
// happens for handles the adapter itself produced, but wire input is
// untrusted and must be checked.
func (r *Registry) Resolve(h vfs.Handle) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path, ok := r.byHandle[h]
	if !ok {
		return "", fmt.Errorf("%w: handle %d was never issued", vfs.ErrNotFound, uint64(h))
	}
	return path, nil
}

// Intern returns the handle for path, minting a new one if the path has not
// been seen before. Safe for concurrent use: when N callers race on the same
// unseen path exactly one mints and the rest observe the winner's value.
func (r *Registry) Intern(path string) vfs.Handle {
	r.mu.RLock()
	h, ok := r.byPath[path]
	r.mu.RUnlock()
	if ok {
		return h
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have won the race between the two locks.
	if h, ok := r.byPath[path]; ok {
		return h
	}

	h = vfs.Handle(r.next)
	r.next++
	r.byPath[path] = h
	r.byHandle[h] = path
	return h
}

// Len returns the number of registered paths.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byPath)
}
