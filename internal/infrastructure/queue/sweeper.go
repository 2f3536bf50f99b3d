package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/socialnet/social-api/internal/core/ports"
)

// Sweeper runs a full graph sweep on a fixed interval.
type Sweeper struct {
	repairer ports.GraphRepairer
	interval time.Duration
	log      zerolog.Logger
}

func NewSweeper(repairer ports.GraphRepairer, interval time.Duration, log zerolog.Logger) *Sweeper {
	return &Sweeper{repairer: repairer, interval: interval, log: log}
}

// Run blocks until ctx is cancelled. A non-positive interval disables the
// sweeper and Run returns immediately.
func (s *Sweeper) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.repairer.Sweep(ctx); err != nil && ctx.Err() == nil {
				s.log.Error().Err(err).Msg("graph sweep failed")
			}
		}
	}
}
