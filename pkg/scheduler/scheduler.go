package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// OfferSweeper is the slice of the RSVP service the scheduler drives.
type OfferSweeper interface {
	ProcessExpiredOffers(ctx context.Context) (int, error)
}

// Scheduler is the single timed driver for waitlist offer expiry. Reads
// also sweep opportunistically per event, so the interval only bounds how
// long an offer on an unwatched event can overstay its deadline.
type Scheduler struct {
	sweeper  OfferSweeper
	interval time.Duration
}

func NewScheduler(sweeper OfferSweeper, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logrus.WithField("interval", s.interval.String()).Info("offer expiry scheduler started")

	for {
		select {
		case <-ticker.C:
			processed, err := s.sweeper.ProcessExpiredOffers(ctx)
			if err != nil {
				logrus.WithError(err).Error("offer expiry sweep failed")
				continue
			}
			if processed > 0 {
				logrus.WithField("count", processed).Info("expired offers reverted")
			}
		case <-ctx.Done():
			logrus.Info("offer expiry scheduler stopped")
			return
		}
	}
}
