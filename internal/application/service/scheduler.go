package service

import (
	"context"
	"time"

	"github.com/damon-houk/country-currency-service/internal/infrastructure/logger"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/middleware"
)

// RunPeriodic refreshes every interval until ctx is done. A failed cycle is
// logged and the next tick tries again. With immediate set, the first cycle
// runs before the first tick.
func (s *RefreshService) RunPeriodic(ctx context.Context, interval time.Duration, immediate bool) {
	if interval <= 0 {
		return
	}

	s.logger.Info("Periodic refresh enabled", logger.Fields{
		"interval":  interval.String(),
		"immediate": immediate,
	})

	run := func(n int) {
		cycleCtx := middleware.WithRequestID(ctx, "scheduled-refresh")
		result, err := s.Refresh(cycleCtx)
		if err != nil {
			s.logger.Error("Scheduled refresh failed", logger.Fields{
				"tick":  n,
				"error": err.Error(),
			})
			return
		}
		s.logger.Debug("Scheduled refresh finished", logger.Fields{
			"tick":      n,
			"processed": result.Processed,
			"shared":    result.Shared,
		})
	}

	tick := 0
	if immediate {
		run(tick)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Periodic refresh stopped", nil)
			return
		case <-ticker.C:
			tick++
			run(tick)
		}
	}
}
