package booking

import (
	"context"
	"time"

	"messmate/internal/logger"
	"messmate/internal/metrics"
)

// Sweeper periodically settles bookings whose meal window has fully
// elapsed. Expiry only changes status; forfeited meals are never
// refunded.
type Sweeper struct {
	service  Service
	interval time.Duration
}

func NewSweeper(service Service, interval time.Duration) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: interval,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	logger.Info("Booking expiry sweeper started", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Booking expiry sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	expired, err := s.service.ExpireDue(ctx)
	if err != nil {
		logger.Error("Expiry sweep failed", "error", err)
		return
	}

	if expired > 0 {
		metrics.RecordExpiredBookings(expired)
		logger.Info("Expired no-show bookings", "count", expired)
	}
}
