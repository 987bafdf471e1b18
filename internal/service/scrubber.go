package service

import (
	"context"
	"time"

	"github.com/lthibault/jitterbug/v2"
	"github.com/odeislands/recap-planner/internal/store"
	"github.com/odeislands/recap-planner/pkg/metrics"
	"go.uber.org/zap"
)

// ExpiryScrubber periodically applies the expiry override to due jobs and
// refreshes the per-status job gauge. Reads already expire lazily; the
// scrubber catches jobs nobody polls anymore so the gauge stays honest.
type ExpiryScrubber struct {
	store    store.Store
	interval time.Duration
}

func NewExpiryScrubber(store store.Store, interval time.Duration) *ExpiryScrubber {
	return &ExpiryScrubber{store: store, interval: interval}
}

func (s *ExpiryScrubber) Run(ctx context.Context) {
	ticker := jitterbug.New(s.interval, &jitterbug.Norm{Stdev: 30 * time.Millisecond, Mean: 0})
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ExpiryScrubber) sweep(ctx context.Context) {
	logger := zap.S().Named("expiry_scrubber")

	expired, err := s.store.Job().ExpireDue(ctx, time.Now())
	if err != nil {
		logger.Warnw("expiry sweep failed", "error", err)
		return
	}
	if expired > 0 {
		logger.Infow("expired jobs", "count", expired)
	}

	counts, err := s.store.Job().CountByStatus(ctx)
	if err != nil {
		logger.Warnw("failed to count jobs by status", "error", err)
		return
	}
	for status, count := range counts {
		metrics.UpdateJobStatusCountMetric(string(status), count)
	}
}
