// Package scheduler runs the pipeline periodically while the dashboard
// server is up.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job represents a scheduled task.
type Job func(ctx context.Context) error

// Scheduler manages periodic jobs on top of cron.
type Scheduler struct {
	cron *cron.Cron
	jobs map[string]cron.EntryID
}

// New creates a scheduler running in UTC, matching the run-prefix
// timestamps.
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		jobs: make(map[string]cron.EntryID),
	}
}

// AddJob registers a job under a cron schedule, e.g. "0 */2 * * *". Each
// invocation gets its own timeout context; failures are logged, never fatal.
func (s *Scheduler) AddJob(name, schedule string, job Job) error {
	entryID, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		slog.Info("scheduled job starting", "job", name)
		start := time.Now()

		if err := job(ctx); err != nil {
			slog.Error("scheduled job failed", "job", name, "error", err)
		} else {
			slog.Info("scheduled job completed", "job", name, "duration", time.Since(start))
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	slog.Info("scheduled job added", "job", name, "schedule", schedule)
	return nil
}

// AddPipelineJob schedules a job every intervalHours hours.
func (s *Scheduler) AddPipelineJob(intervalHours int, job Job) error {
	schedule := fmt.Sprintf("0 */%d * * *", intervalHours)
	return s.AddJob("pipeline", schedule, job)
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and returns a context that is done once running
// jobs have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
