// Package ui provides the Bubble Tea terminal host for BlackConnect.
//
// # Architecture Overview
//
// The TUI lists the buffers opened from the command line, the status of each
// buffer's latest reformat, the daemon's reachability, and the most recent
// error notifications.
//
// Bubble Tea's Update loop is the only goroutine that edits buffers. The
// reformat workflow reaches it through a Bridge:
//
//	workflow goroutine              Update loop
//	┌────────────────────┐          ┌──────────────────────┐
//	│ blackd.Format()    │          │                      │
//	│ Interpret()        │          │                      │
//	│ Bridge.Dispatch(fn)│─────────→│ applyMsg: fn()       │
//	│ Bridge.Notify(n)   │─────────→│ notifyMsg: list it   │
//	└────────────────────┘ p.Send() └──────────────────────┘
//
// The apply function re-checks cancellation itself, so a cancel key pressed
// before the applyMsg is processed still prevents the edit.
//
// # Key Bindings
//
//   - f/enter: reformat the selected buffer; F: reformat all buffers
//   - x/esc: cancel the selected buffer's reformat
//   - u: undo the last edit of the selected buffer
//   - w/ctrl+s: write the buffer, then reformat when trigger_on_save is set
//   - T: cycle theme; h/?: toggle help; q/ctrl+c: quit
//
// # Daemon Status
//
// A tick every 250ms copies the state.Store snapshot maintained by the
// background prober into the header.
package ui
