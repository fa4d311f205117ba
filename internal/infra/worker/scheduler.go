// Package worker runs the periodic sync schedule and tracked background
// tasks. Scheduler state is in-memory only: after a restart the first tick
// is simply one interval away.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"telenews/internal/observability/metrics"
	syncuc "telenews/internal/usecase/sync"
)

// BatchRunner is the coordinator surface the scheduler drives.
type BatchRunner interface {
	SyncAll(ctx context.Context) *syncuc.BatchStats
}

// Scheduler fires a whole-batch sync on a fixed cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	runner  BatchRunner
	timeout time.Duration
}

// NewScheduler builds a scheduler for the given cron expression (robfig
// syntax, @every forms included) in the given IANA timezone.
func NewScheduler(schedule, timezone string, jobTimeout time.Duration, runner BatchRunner) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}

	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		runner:  runner,
		timeout: jobTimeout,
	}
	if _, err := s.cron.AddFunc(schedule, s.runJob); err != nil {
		return nil, fmt.Errorf("add sync job %q: %w", schedule, err)
	}

	slog.Info("scheduler configured",
		slog.String("schedule", schedule),
		slog.String("timezone", timezone),
		slog.Duration("job_timeout", jobTimeout))
	return s, nil
}

// Start begins firing ticks. It returns immediately.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started")
}

// Stop halts the schedule and waits for a running job to finish, bounded by
// ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
		slog.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// runJob executes one scheduled whole-batch sync with a bounded timeout.
// A tick overlapping a still-running sync for some channel skips just that
// channel; the per-channel guard inside the synchronizer handles it.
func (s *Scheduler) runJob() {
	logger := slog.Default()
	start := time.Now()
	logger.Info("scheduled sync started")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	stats := s.runner.SyncAll(ctx)
	metrics.RecordBatchRun("scheduled", time.Since(start))

	logger.Info("scheduled sync completed",
		slog.Int("channels", stats.Channels),
		slog.Int("synced", stats.Synced),
		slog.Int("failed", len(stats.Failed)),
		slog.Int64("new_items", stats.NewItems),
		slog.Duration("duration", time.Since(start)))
}
