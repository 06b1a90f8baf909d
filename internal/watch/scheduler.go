package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/inletra/docsite/internal/logfields"
	"github.com/inletra/docsite/internal/store"
)

// Scheduler wraps gocron for periodic watch tasks. Today that is the
// external link recheck; scheduled work always goes through the queue so it
// shares workers and history with event-triggered jobs.
type Scheduler struct {
	scheduler gocron.Scheduler
	queue     enqueuer
}

// NewScheduler creates a scheduler that feeds the given queue.
func NewScheduler(queue enqueuer) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		queue:     queue,
	}, nil
}

// ScheduleLinkRecheck registers the periodic link verification job and
// returns its scheduler ID.
func (s *Scheduler) ScheduleLinkRecheck(interval time.Duration) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.enqueueLinkRecheck),
		gocron.WithName("link-recheck"),
	)
	if err != nil {
		return "", fmt.Errorf("failed to schedule link recheck: %w", err)
	}

	slog.Info("Scheduled periodic link recheck", slog.Duration("interval", interval))
	return job.ID().String(), nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start(_ context.Context) {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop shuts the scheduler down and waits for running tasks.
func (s *Scheduler) Stop(_ context.Context) error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) enqueueLinkRecheck() {
	job := &Job{
		ID:        store.NewRunID(),
		Kind:      JobLinkRecheck,
		Trigger:   TriggerSchedule,
		Reason:    "link-recheck",
		CreatedAt: time.Now(),
	}

	if err := s.queue.Enqueue(job); err != nil {
		slog.Error("Failed to enqueue link recheck", logfields.JobID(job.ID), logfields.Error(err))
	}
}
