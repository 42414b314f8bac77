// Package scheduler drives recurring import runs on a fixed interval.
package scheduler

import (
	"context"
	"time"

	"NewsImporter/internal/ports"
)

// IntervalScheduler fires the job once after a short boot delay, then
// on every tick of a fixed wall-clock interval.
type IntervalScheduler struct {
	interval  time.Duration
	bootDelay time.Duration
	stop      chan struct{}
}

var _ ports.Scheduler = (*IntervalScheduler)(nil)

// NewIntervalScheduler builds a scheduler with the given cadence.
func NewIntervalScheduler(interval, bootDelay time.Duration) *IntervalScheduler {
	return &IntervalScheduler{interval: interval, bootDelay: bootDelay}
}

// Start launches the ticking goroutine. Starting twice is a no-op.
func (s *IntervalScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if s.stop != nil {
		return nil
	}

	s.stop = make(chan struct{})
	go func() {
		boot := time.NewTimer(s.bootDelay)
		defer boot.Stop()

		select {
		case t := <-boot.C:
			job(t)
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case t := <-ticker.C:
				job(t)
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine.
func (s *IntervalScheduler) Stop(ctx context.Context) error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}
