package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is how often the scheduler kicks a sweep.
const DefaultSweepInterval = 5 * time.Minute

// Scheduler runs batch sweeps on a fixed interval until cancelled. After
// each sweep it also reaps documents that exhausted their retry budget.
type Scheduler struct {
	batch    *Batch
	proc     *Processor
	interval time.Duration
	log      *slog.Logger
}

func NewScheduler(batch *Batch, proc *Processor, interval time.Duration, log *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{batch: batch, proc: proc, interval: interval, log: log}
}

// Run blocks until ctx is cancelled. The first sweep starts immediately.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("scheduler started", "interval", s.interval.String())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	if _, err := s.batch.Run(ctx); err != nil {
		s.log.Error("scheduled sweep failed", "err", err)
		return
	}
	if _, err := s.proc.CleanupFailed(ctx); err != nil {
		s.log.Error("failed-document cleanup errored", "err", err)
	}
}
