// Package reformat coordinates a blackd reformat of one document.
//
// # Overview
//
// Workflow.Process snapshots a document's text and the current settings,
// registers a fresh operation handle for the document (cancelling the one it
// supersedes) and calls blackd on a background goroutine. The response is
// classified by Interpret and, for a 200, handed to the host's Dispatcher so
// the edit happens on the context that owns the document.
//
// # Phases
//
//	Requested -> AwaitingResponse -> Applying | Discarded | Reported
//
// Cancellation is re-read at three checkpoints:
//
//  1. before the blackd call
//  2. after the call returns, before the response is interpreted
//  3. inside the dispatched apply function, just before ReplaceText
//
// A cancelled operation ends Discarded without touching the document and
// without notifying anyone. Cancelling does not abort an in-flight HTTP call;
// the late response is simply dropped. Only the context passed to Process
// can abort the call itself.
//
// # Outcomes
//
//	200 -> Apply (body is the new text)
//	204 -> NoChange
//	400 -> SyntaxError (notified only with show_syntax_error_msgs)
//	500 -> InternalError
//	*   -> UnexpectedError (including the connection-failed sentinel)
//
// None of them is retried.
package reformat
