package sweeper

import (
	"context"
	"time"

	"velora-be/internal/logger"
	"velora-be/internal/metrics"
	"velora-be/internal/order"

	"go.uber.org/zap"
)

// Sweeper periodically cancels gateway orders whose payment never
// arrived, so abandoned checkouts do not pile up as Payment Pending.
type Sweeper struct {
	svc      order.Service
	interval time.Duration
}

func New(svc order.Service, interval time.Duration) *Sweeper {
	if interval == 0 {
		interval = 10 * time.Minute
	}
	return &Sweeper{svc: svc, interval: interval}
}

// Run blocks until ctx is cancelled. Meant to be launched on an
// errgroup alongside the HTTP server.
func (s *Sweeper) Run(ctx context.Context) error {
	log := logger.L().With(zap.Duration("interval", s.interval))
	log.Info("pending-order sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("pending-order sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			swept, err := s.svc.ExpireStalePending(ctx)
			if err != nil {
				log.Error("sweep failed", zap.Error(err))
				continue
			}
			if swept > 0 {
				metrics.StalePendingExpired.Add(float64(swept))
			}
		}
	}
}
