package jobs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"cerfidoc-gamification/internal/repository"

	"github.com/rs/zerolog"
)

// ClaimExpirer periodically flips pending reward claims whose grace
// period has lapsed to expired. Runs inside the server process; the sweep
// is a single UPDATE so overlapping instances are harmless.
type ClaimExpirer struct {
	repo    *repository.PostgresRepository
	log     zerolog.Logger
	ticker  *time.Ticker
	stopCh  chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool

	// Metrics
	sweeps    atomic.Int64
	expired   atomic.Int64
	errors    atomic.Int64
	startTime time.Time

	interval time.Duration
}

// ExpirerConfig holds configuration for the claim expirer
type ExpirerConfig struct {
	Interval time.Duration // Default: 1h
}

// NewClaimExpirer creates a new claim expirer
func NewClaimExpirer(repo *repository.PostgresRepository, log zerolog.Logger, config ExpirerConfig) *ClaimExpirer {
	if config.Interval == 0 {
		config.Interval = time.Hour
	}

	return &ClaimExpirer{
		repo:     repo,
		log:      log.With().Str("component", "claim-expirer").Logger(),
		stopCh:   make(chan struct{}),
		interval: config.Interval,
	}
}

// Start begins the sweep loop
func (e *ClaimExpirer) Start(ctx context.Context) error {
	if e.running.Load() {
		return fmt.Errorf("claim expirer already running")
	}

	e.startTime = time.Now()
	e.running.Store(true)

	e.log.Info().Dur("interval", e.interval).Msg("claim expirer started")

	e.wg.Add(1)
	go e.sweepLoop(ctx)

	return nil
}

// Stop gracefully stops the expirer
func (e *ClaimExpirer) Stop() {
	if !e.running.Load() {
		return
	}

	e.running.Store(false)
	close(e.stopCh)
	e.wg.Wait()

	e.log.Info().
		Int64("sweeps", e.sweeps.Load()).
		Int64("expired", e.expired.Load()).
		Int64("errors", e.errors.Load()).
		Dur("uptime", time.Since(e.startTime)).
		Msg("claim expirer stopped")
}

// IsRunning returns whether the expirer is currently running
func (e *ClaimExpirer) IsRunning() bool {
	return e.running.Load()
}

// GetMetrics returns current expirer metrics
func (e *ClaimExpirer) GetMetrics() map[string]interface{} {
	return map[string]interface{}{
		"running": e.running.Load(),
		"sweeps":  e.sweeps.Load(),
		"expired": e.expired.Load(),
		"errors":  e.errors.Load(),
		"uptime":  time.Since(e.startTime).String(),
	}
}

// sweepLoop is the main event loop
func (e *ClaimExpirer) sweepLoop(ctx context.Context) {
	defer e.wg.Done()

	e.ticker = time.NewTicker(e.interval)
	defer e.ticker.Stop()

	// One sweep on startup so a long interval cannot leave lapsed claims
	// pending for hours after a restart
	e.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return

		case <-e.stopCh:
			return

		case <-e.ticker.C:
			e.sweep(ctx)
		}
	}
}

// sweep runs one expiry pass
func (e *ClaimExpirer) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	e.sweeps.Add(1)

	n, err := e.repo.ExpireOverdueClaims(sweepCtx, time.Now())
	if err != nil {
		e.errors.Add(1)
		e.log.Error().Err(err).Msg("claim expiry sweep failed")
		return
	}

	if n > 0 {
		e.expired.Add(n)
		e.log.Info().Int64("claims", n).Msg("expired lapsed reward claims")
	}
}
