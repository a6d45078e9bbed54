package state

import (
	"sort"
	"sync"
)

// Registry maps a document identity to its tracked operation. It only
// stores associations; enforcing cancellation is left to the workflow.
type Registry struct {
	mu      sync.Mutex
	handles map[string]*Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]*Handle)}
}

// Register makes h the tracked operation for documentID and returns the
// handle it replaced, if any. The replaced handle is not cancelled.
func (r *Registry) Register(documentID string, h *Handle) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handles == nil {
		r.handles = make(map[string]*Handle)
	}
	prev := r.handles[documentID]
	r.handles[documentID] = h
	return prev
}

// Lookup returns the tracked operation for documentID.
func (r *Registry) Lookup(documentID string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.handles[documentID]
	return h, ok
}

// Cancel cancels the tracked operation for documentID and stops tracking it.
// It reports whether there was anything to cancel.
func (r *Registry) Cancel(documentID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.handles[documentID]
	if !ok {
		return false
	}
	h.Cancel()
	delete(r.handles, documentID)
	return true
}

// Complete stops tracking h. A newer handle registered for the same document
// is left in place.
func (r *Registry) Complete(documentID string, h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handles[documentID] == h {
		delete(r.handles, documentID)
	}
}

// Active returns the tracked handles ordered by document identity.
func (r *Registry) Active() []*Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Handle, 0, len(r.handles))
	for _, h := range r.handles {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].documentID < out[j].documentID })
	return out
}
