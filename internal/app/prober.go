package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/blackconnect/internal/blackd"
	"github.com/five82/blackconnect/internal/config"
	"github.com/five82/blackconnect/internal/state"
)

const (
	defaultProbeInterval = 2 * time.Second
	maxBackoff           = 30 * time.Second
	probeTimeout         = 3 * time.Second
)

// StartProber launches a background goroutine that checks blackd and
// records the result in store. Consecutive failures back off exponentially.
// It returns immediately.
func StartProber(ctx context.Context, store *state.Store, prober blackd.Prober, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	go func() {
		for {
			probe(ctx, store, prober, logger)
			wait := calculateBackoff(store.Snapshot().ConsecutiveFailures, interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

func probe(ctx context.Context, store *state.Store, prober blackd.Prober, logger *slog.Logger) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	result := prober.Check(probeCtx)
	if ctx.Err() != nil {
		return
	}
	if !result.Reachable {
		logger.Debug("blackd probe failed", "endpoint", result.Endpoint, "reason", result.Detail)
	}
	if result.Endpoint != "" {
		store.SetEndpoint(result.Endpoint)
	}
	store.Update(result.Reachable, result.Detail)
}

// settingsProber probes whichever daemon the settings name at call time, so
// a hostname or port edit is picked up by the next probe.
type settingsProber func() config.Settings

func (f settingsProber) Check(ctx context.Context) blackd.Connectivity {
	cfg := f()
	return blackd.CheckConnection(ctx, cfg.Hostname, cfg.Port)
}

// calculateBackoff doubles base for every consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}
