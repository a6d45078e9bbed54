package ui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/blackconnect/internal/reformat"
)

// applyMsg carries a function that must run inside Update, the only place
// buffers are edited.
type applyMsg struct{ fn func() }

// notifyMsg delivers a workflow notification to the model.
type notifyMsg reformat.Notification

// Bridge hands workflow callbacks to a running Bubble Tea program. It is
// the Dispatcher and Notifier of the TUI host.
type Bridge struct {
	program atomic.Pointer[tea.Program]
}

// NewBridge returns a bridge with no program attached.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach routes future callbacks to p.
func (b *Bridge) Attach(p *tea.Program) {
	b.program.Store(p)
}

// Dispatch queues fn for execution in the program's Update loop. Nothing is
// queued when no program is attached or the program has exited.
func (b *Bridge) Dispatch(fn func()) {
	if p := b.program.Load(); p != nil {
		p.Send(applyMsg{fn: fn})
	}
}

// Notify implements reformat.Notifier. It never blocks: a failed apply
// reports from inside Update, where a synchronous Send would wait on the
// loop that is running it.
func (b *Bridge) Notify(n reformat.Notification) {
	if p := b.program.Load(); p != nil {
		go p.Send(notifyMsg(n))
	}
}
