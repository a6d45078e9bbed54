package state

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterReplacesWithoutCancelling(t *testing.T) {
	r := NewRegistry()

	first := NewHandle("/src/a.py")
	require.Nil(t, r.Register("/src/a.py", first))

	second := NewHandle("/src/a.py")
	prev := r.Register("/src/a.py", second)
	require.Same(t, first, prev)
	assert.False(t, first.Cancelled(), "registry must not cancel the replaced handle")

	got, ok := r.Lookup("/src/a.py")
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestRegistry_CancelFlagsAndForgets(t *testing.T) {
	r := NewRegistry()
	h := NewHandle("/src/a.py")
	r.Register("/src/a.py", h)

	assert.True(t, r.Cancel("/src/a.py"))
	assert.True(t, h.Cancelled())

	_, ok := r.Lookup("/src/a.py")
	assert.False(t, ok)
	assert.False(t, r.Cancel("/src/a.py"), "second cancel has nothing to cancel")
}

func TestRegistry_CompleteIgnoresSupersededHandle(t *testing.T) {
	r := NewRegistry()
	old := NewHandle("/src/a.py")
	r.Register("/src/a.py", old)
	current := NewHandle("/src/a.py")
	r.Register("/src/a.py", current)

	r.Complete("/src/a.py", old)
	got, ok := r.Lookup("/src/a.py")
	require.True(t, ok)
	assert.Same(t, current, got)

	r.Complete("/src/a.py", current)
	_, ok = r.Lookup("/src/a.py")
	assert.False(t, ok)
}

func TestRegistry_ActiveSortedByDocument(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"c.py", "a.py", "b.py"} {
		r.Register(id, NewHandle(id))
	}

	active := r.Active()
	require.Len(t, active, 3)
	assert.Equal(t, "a.py", active[0].DocumentID())
	assert.Equal(t, "b.py", active[1].DocumentID())
	assert.Equal(t, "c.py", active[2].DocumentID())
}

func TestRegistry_ZeroValueUsable(t *testing.T) {
	var r Registry
	h := NewHandle("a.py")
	assert.Nil(t, r.Register("a.py", h))
	got, ok := r.Lookup("a.py")
	require.True(t, ok)
	assert.Same(t, h, got)
}

func TestRegistry_ConcurrentDocuments(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("doc-%d.py", i%5)
			h := NewHandle(id)
			r.Register(id, h)
			_, _ = r.Lookup(id)
			r.Complete(id, h)
		}(i)
	}
	wg.Wait()

	for _, h := range r.Active() {
		assert.Contains(t, []string{"doc-0.py", "doc-1.py", "doc-2.py", "doc-3.py", "doc-4.py"}, h.DocumentID())
	}
}

func TestRegistry_SameDocumentNoLostUpdates(t *testing.T) {
	r := NewRegistry()
	const n = 100

	handles := make([]*Handle, n)
	for i := range handles {
		handles[i] = NewHandle("same.py")
	}

	var mu sync.Mutex
	replaced := make(map[*Handle]bool)

	var wg sync.WaitGroup
	for _, h := range handles {
		wg.Add(1)
		go func(h *Handle) {
			defer wg.Done()
			if prev := r.Register("same.py", h); prev != nil {
				mu.Lock()
				replaced[prev] = true
				mu.Unlock()
			}
		}(h)
	}
	wg.Wait()

	// Every handle except the survivor was returned exactly once as replaced.
	survivor, ok := r.Lookup("same.py")
	require.True(t, ok)
	assert.Len(t, replaced, n-1)
	assert.False(t, replaced[survivor])
}

func TestHandle_FinishOnce(t *testing.T) {
	h := NewHandle("a.py")
	assert.Equal(t, PhaseIdle, h.Phase())

	h.Advance(PhaseAwaitingResponse)
	assert.Equal(t, PhaseAwaitingResponse, h.Phase())

	h.Finish(PhaseDiscarded)
	h.Finish(PhaseApplying)
	assert.Equal(t, PhaseDiscarded, h.Phase())

	select {
	case <-h.Done():
	default:
		t.Fatal("Done not closed after Finish")
	}
	assert.Equal(t, "discarded", h.Phase().String())
}
