package state

import (
	"sync"
	"time"
)

// DaemonSnapshot is the latest known blackd reachability.
type DaemonSnapshot struct {
	Reachable           bool
	Version             string
	LastError           string
	LastChecked         time.Time
	ConsecutiveFailures int
	// Endpoint is the daemon URL the last probe went to.
	Endpoint string
}

// IsOffline returns true when the daemon has been unreachable for multiple probes.
func (s DaemonSnapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Checked reports whether any probe result has been recorded.
func (s DaemonSnapshot) Checked() bool {
	return !s.LastChecked.IsZero()
}

// Store coordinates concurrent updates to the daemon snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot DaemonSnapshot
}

// Update records a probe result. A failed probe keeps the last known version
// so the UI can still show which daemon went away.
func (s *Store) Update(reachable bool, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastChecked = time.Now()
	if !reachable {
		s.snapshot.Reachable = false
		s.snapshot.LastError = detail
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.Reachable = true
	s.snapshot.Version = detail
	s.snapshot.LastError = ""
	s.snapshot.ConsecutiveFailures = 0
}

// SetEndpoint records which daemon URL is being probed.
func (s *Store) SetEndpoint(endpoint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Endpoint = endpoint
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() DaemonSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}
