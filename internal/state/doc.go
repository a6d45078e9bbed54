// Package state holds the shared, concurrency-safe state of BlackConnect.
//
// # Overview
//
// Two independent pieces of state cross goroutine boundaries:
//
//   - Registry: which reformat operation is currently tracked for each
//     document, keyed by the document's stable identity
//   - Store: the latest blackd reachability snapshot written by the
//     background prober and read by the TUI
//
// # Operation Handles
//
// A Handle carries a UUID, the document identity, a cooperative cancellation
// flag and the operation phase:
//
//	idle -> requested -> awaiting-response -> applying | discarded | reported
//
// Finish records the terminal phase once and closes Done.
//
// # Registry Semantics
//
// Register replaces whatever handle is tracked for the document and returns
// the replaced one without cancelling it; the caller decides. Complete only
// forgets a handle if it is still the tracked one, so a slow, superseded
// operation cannot untrack its successor. All methods take a single mutex,
// which makes operations on the same document linearizable.
//
// # Concurrency Model
//
// Store uses a readers-writer lock: one writer (the prober), many readers.
// Snapshot returns a value copy.
package state
