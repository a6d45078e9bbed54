package state

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Phase is the position of a reformat operation in its lifecycle.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseRequested
	PhaseAwaitingResponse
	PhaseApplying
	PhaseDiscarded
	PhaseReported
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRequested:
		return "requested"
	case PhaseAwaitingResponse:
		return "awaiting-response"
	case PhaseApplying:
		return "applying"
	case PhaseDiscarded:
		return "discarded"
	case PhaseReported:
		return "reported"
	default:
		return "unknown"
	}
}

// Handle tracks one reformat operation on one document. Cancellation is
// cooperative: Cancel only raises a flag that the workflow reads at its
// checkpoints.
type Handle struct {
	id         uuid.UUID
	documentID string
	started    time.Time

	cancelled atomic.Bool
	phase     atomic.Int32

	finishOnce sync.Once
	done       chan struct{}
}

// NewHandle creates an idle handle for documentID.
func NewHandle(documentID string) *Handle {
	return &Handle{
		id:         uuid.New(),
		documentID: documentID,
		started:    time.Now(),
		done:       make(chan struct{}),
	}
}

// ID uniquely identifies the operation.
func (h *Handle) ID() uuid.UUID { return h.id }

// DocumentID returns the identity of the document the operation targets.
func (h *Handle) DocumentID() string { return h.documentID }

// Started returns when the handle was created.
func (h *Handle) Started() time.Time { return h.started }

// Cancel requests that no result of this operation be applied.
func (h *Handle) Cancel() { h.cancelled.Store(true) }

// Cancelled reports whether Cancel has been called.
func (h *Handle) Cancelled() bool { return h.cancelled.Load() }

// Phase returns the current lifecycle phase.
func (h *Handle) Phase() Phase { return Phase(h.phase.Load()) }

// Advance moves the handle to a non-terminal phase.
func (h *Handle) Advance(p Phase) { h.phase.Store(int32(p)) }

// Finish records the terminal phase and releases waiters. Only the first
// call has any effect.
func (h *Handle) Finish(p Phase) {
	h.finishOnce.Do(func() {
		h.phase.Store(int32(p))
		close(h.done)
	})
}

// Done is closed once the operation reaches a terminal phase.
func (h *Handle) Done() <-chan struct{} { return h.done }
