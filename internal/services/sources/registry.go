// Package sources builds the numbered research context that grounds every
// generated section, and tracks which source each citation index refers
// to so the references section can link back to the original material.
package sources

import (
	"sort"
	"sync"

	"github.com/ternarybob/indago/internal/models"
)

// Registry assigns dense citation indexes to research sources. Indexes
// start at 1 and never repeat within a registry; the numbers embedded in
// the research context as "Source [n]" are exactly the keys held here.
type Registry struct {
	mu   sync.RWMutex
	refs map[int]models.SourceRef
	next int
}

// NewRegistry creates an empty registry. The first Add returns index 1.
func NewRegistry() *Registry {
	return &Registry{
		refs: make(map[int]models.SourceRef),
		next: 1,
	}
}

// NewRegistryFromSnapshot rebuilds a registry from a stored snapshot.
// Subsequent Add calls continue after the highest existing index.
func NewRegistryFromSnapshot(snapshot map[int]models.SourceRef) *Registry {
	r := NewRegistry()
	for idx, ref := range snapshot {
		r.refs[idx] = ref
		if idx >= r.next {
			r.next = idx + 1
		}
	}
	return r
}

// Add registers a source and returns its citation index.
func (r *Registry) Add(ref models.SourceRef) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.next
	r.refs[idx] = ref
	r.next++
	return idx
}

// Lookup returns the source behind a citation index.
func (r *Registry) Lookup(index int) (models.SourceRef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ref, ok := r.refs[index]
	return ref, ok
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.refs)
}

// Indexes returns all citation indexes in ascending order.
func (r *Registry) Indexes() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indexes := make([]int, 0, len(r.refs))
	for idx := range r.refs {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	return indexes
}

// Snapshot returns a copy of the index-to-source mapping, suitable for
// caching alongside the research bundle.
func (r *Registry) Snapshot() map[int]models.SourceRef {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[int]models.SourceRef, len(r.refs))
	for idx, ref := range r.refs {
		snapshot[idx] = ref
	}
	return snapshot
}
