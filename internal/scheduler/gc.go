package scheduler

import (
	"context"
	"time"

	"github.com/streetpass/streetpass/internal/discovery"
	"github.com/streetpass/streetpass/internal/logger"
)

// DefaultSweepInterval is how often the sweeper prunes expired NotProfile
// records when nothing else triggers a mutation.
const DefaultSweepInterval = 10 * time.Minute

// Sweeper periodically runs the NotProfile expiry that the discovery path
// otherwise performs opportunistically, so the store shrinks even on idle
// days.
type Sweeper struct {
	discovery *discovery.Service
	log       logger.Logger
	interval  time.Duration
	stopCh    chan struct{}
}

// NewSweeper creates a sweeper.
func NewSweeper(disc *discovery.Service, log logger.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		discovery: disc,
		log:       log,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start runs one sweep immediately, then sweeps on the interval until Stop
// or context cancellation.
func (s *Sweeper) Start(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep(ctx)
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the sweeper.
func (s *Sweeper) Stop() {
	close(s.stopCh)
}

func (s *Sweeper) sweep(ctx context.Context) {
	expired := s.discovery.ExpireNotProfiles(ctx)
	if expired > 0 {
		s.log.Info("expired stale NotProfile records",
			logger.Int("expired", expired))
	} else {
		s.log.Debug("no NotProfile records to expire")
	}
}
