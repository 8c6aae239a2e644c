package network

import (
	"sync"
	"time"

	"github.com/nstehr/vimy/vimy-viewer/model"
)

// Registry holds the latest known entity summaries. The poller swaps the
// whole list under the write lock; readers copy it under the read lock. No
// lock is held across I/O.
type Registry struct {
	mu        sync.RWMutex
	objects   []model.ObjectSummary
	version   uint64
	updatedAt time.Time
	closed    bool
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Snapshot is a point-in-time copy of the registry. It may be stale by up
// to one poll interval plus network latency.
type Snapshot struct {
	Objects   []model.ObjectSummary
	Version   uint64    // increments on every successful replace; 0 = never polled
	UpdatedAt time.Time // zero until the first successful replace
}

// Age reports how old the snapshot is at now. A never-populated snapshot
// has age zero.
func (s Snapshot) Age(now time.Time) time.Duration {
	if s.UpdatedAt.IsZero() {
		return 0
	}
	return now.Sub(s.UpdatedAt)
}

// Replace swaps in a new entity list wholesale. Entities absent from objs
// cease to exist. It returns false, leaving the registry untouched, once
// the registry has been closed.
func (r *Registry) Replace(objs []model.ObjectSummary, at time.Time) (Diff, bool) {
	fresh := make([]model.ObjectSummary, len(objs))
	copy(fresh, objs)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return Diff{}, false
	}
	old := r.objects
	r.objects = fresh
	r.version++
	r.updatedAt = at
	r.mu.Unlock()

	// old is unreachable from the registry now, so the diff runs unlocked.
	return diffByName(old, fresh), true
}

func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	objs := make([]model.ObjectSummary, len(r.objects))
	copy(objs, r.objects)
	return Snapshot{Objects: objs, Version: r.version, UpdatedAt: r.updatedAt}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objects)
}

// Close seals the registry. Later Replace calls are dropped so a poll that
// finishes after shutdown cannot write into it.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

// Version counts successful replaces. Zero means the registry has never
// been populated.
func (r *Registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

func (r *Registry) UpdatedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.updatedAt
}
