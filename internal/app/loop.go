package app

import (
	"context"
	"sync"
)

// Loop is a single goroutine that runs dispatched functions in order. The
// batch formatter uses it as the only context allowed to edit buffers.
type Loop struct {
	fns     chan func()
	stopped chan struct{}
	once    sync.Once
}

// NewLoop returns a loop with room for size pending functions.
func NewLoop(size int) *Loop {
	if size <= 0 {
		size = 64
	}
	return &Loop{
		fns:     make(chan func(), size),
		stopped: make(chan struct{}),
	}
}

// Dispatch queues fn. Functions dispatched after the loop stopped are dropped.
func (l *Loop) Dispatch(fn func()) {
	select {
	case <-l.stopped:
	case l.fns <- fn:
	}
}

// Run executes queued functions until ctx ends.
func (l *Loop) Run(ctx context.Context) {
	defer l.once.Do(func() { close(l.stopped) })
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.fns:
			fn()
		}
	}
}
