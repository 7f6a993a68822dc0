package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpost/blog-api/internal/api/metrics"
)

const (
	defaultSweepInterval    = time.Hour
	defaultRevokedRetention = 24 * time.Hour
	sweepTimeout            = time.Minute
)

// TokenPurger is the subset of the refresh token store the sweeper needs.
type TokenPurger interface {
	DeleteExpired(ctx context.Context, now, revokedBefore time.Time) (int64, error)
}

// Sweeper periodically purges refresh tokens that are past their expiry or
// were revoked longer ago than the retention window. Revoked rows are kept
// for a while so token reuse can still be traced in the store.
type Sweeper struct {
	store     TokenPurger
	interval  time.Duration
	retention time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// NewSweeper creates a Sweeper. Non-positive durations fall back to defaults.
func NewSweeper(store TokenPurger, interval, retention time.Duration, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if retention <= 0 {
		retention = defaultRevokedRetention
	}
	return &Sweeper{
		store:     store,
		interval:  interval,
		retention: retention,
		log:       log,
		now:       time.Now,
	}
}

// Start launches the sweep loop. It stops when ctx is cancelled; the returned
// channel is closed once the goroutine has exited.
func (s *Sweeper) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.run(ctx)
	}()
	return done
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
				s.log.Error().Err(err).Msg("refresh token sweep failed")
			}
		}
	}
}

// SweepOnce performs a single purge and returns the number of rows removed.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	now := s.now().UTC()
	n, err := s.store.DeleteExpired(ctx, now, now.Add(-s.retention))
	if err != nil {
		metrics.SweepErrorsTotal.Inc()
		return 0, err
	}

	metrics.TokensSweptTotal.Add(float64(n))
	if n > 0 {
		s.log.Info().Int64("removed", n).Msg("refresh tokens swept")
	}
	return n, nil
}
