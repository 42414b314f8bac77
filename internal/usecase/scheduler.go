package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"NewsImporter/internal/domain"
	"NewsImporter/internal/ports"
)

// Scheduler owns the run state: a mutual-exclusion guard so that at
// most one import is in progress, plus the last result for status
// reporting. A trigger while running is a no-op, never queued.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	last    *domain.ImportResult
}

// NewScheduler wires the interval driver with the pipeline.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, logger: logger}
}

// Start registers the pipeline with the underlying driver.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if res := s.execute(ctx); res == nil {
			s.log("scheduled run skipped, import already in progress", "trigger", trigger)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop tears down the underlying driver.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Stop(ctx)
}

// TriggerManual synchronously awaits one import pass and returns its
// result, or nil when a run was already in progress.
func (s *Scheduler) TriggerManual(ctx context.Context) *domain.ImportResult {
	return s.execute(ctx)
}

// Status returns the last completed result (nil before the first run)
// and whether an import is currently in progress.
func (s *Scheduler) Status() (*domain.ImportResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.running
}

func (s *Scheduler) execute(ctx context.Context) *domain.ImportResult {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	result := s.pipeline.Run(ctx)

	s.mu.Lock()
	s.running = false
	s.last = &result
	s.mu.Unlock()

	return &result
}

func (s *Scheduler) log(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}
