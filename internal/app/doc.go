// Package app provides the orchestration layer for BlackConnect.
//
// # Overview
//
// This package wires configuration, the blackd client, the operation
// registry, the reformat workflow and a host together. It is the composition
// root: every collaborator is created here and passed down explicitly.
//
// # Entry Points
//
//   - Check: probe the configured daemon once
//   - Format: batch reformat files from the command line
//   - RunTUI: interactive terminal host
//   - Init: write a default config file
//
// # Hosts
//
// The workflow needs a single context that owns document mutation. Format
// provides one with Loop, a goroutine draining a channel of functions:
//
//	┌──────────────┐
//	│  Format()    │
//	└──────┬───────┘
//	       ├─────> LoadSettings()       Config file + flag overrides
//	       ├─────> blackd.NewClient()   HTTP client
//	       ├─────> NewLoop().Run()      Document-owning goroutine
//	       ├─────> workflow.Process()   One background call per file
//	       └─────> errgroup Wait        Save each reformatted buffer
//
// RunTUI uses the Bubble Tea Update loop instead (see package ui) and starts
// StartProber, which checks the daemon periodically and records the result
// in a state.Store for the header.
//
// # Probe Behavior
//
// The prober checks blackd every 2 seconds while it is reachable. Each
// consecutive failure doubles the wait, capped at 30 seconds; a success
// resets it. Every probe carries its own 3 second timeout.
//
// # Error Handling
//
// Fatal errors (returned):
//   - Config file invalid or failing validation
//   - Files that cannot be opened (TUI only)
//
// Per-file failures in Format are printed and counted; Format then returns
// ErrFormatFailed so the CLI can exit non-zero.
package app
