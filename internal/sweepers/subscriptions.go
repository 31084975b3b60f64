// Package sweepers runs ticker-driven maintenance loops.
package sweepers

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Expirer cancels subscriptions whose paid period is over.
type Expirer interface {
	ExpireDue(ctx context.Context, now time.Time) ([]int64, error)
}

// SubscriptionSweeper periodically expires subscriptions scheduled for
// cancellation.
type SubscriptionSweeper struct {
	expirer  Expirer
	logger   *zerolog.Logger
	interval time.Duration
	now      func() time.Time
	stopChan chan struct{}
}

func NewSubscriptionSweeper(expirer Expirer, logger *zerolog.Logger, interval time.Duration) *SubscriptionSweeper {
	return &SubscriptionSweeper{
		expirer:  expirer,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Start runs one sweep immediately, then one per interval until ctx is
// cancelled or Stop is called.
func (s *SubscriptionSweeper) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Msg("Starting subscription sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Subscription sweeper stopping (context cancelled)")
			return
		case <-s.stopChan:
			s.logger.Info().Msg("Subscription sweeper stopping (stop signal)")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

func (s *SubscriptionSweeper) Stop() {
	close(s.stopChan)
}

// Sweep expires the subscriptions due at the current time and returns how
// many were cancelled. Failures are logged.
func (s *SubscriptionSweeper) Sweep(ctx context.Context) int {
	ids, err := s.expirer.ExpireDue(ctx, s.now())
	if err != nil {
		s.logger.Error().Err(err).Int("expired", len(ids)).Msg("Failed to expire subscriptions")
		return len(ids)
	}
	if len(ids) > 0 {
		s.logger.Info().Ints64("ids", ids).Msg("Expired subscriptions")
	}
	return len(ids)
}
