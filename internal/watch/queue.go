package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/inletra/docsite/internal/logfields"
)

// JobKind says what a queued job runs.
type JobKind string

const (
	JobCheck       JobKind = "check"
	JobEmit        JobKind = "emit"
	JobLinkRecheck JobKind = "links"
)

// Trigger records what caused a job to be queued.
type Trigger string

const (
	TriggerStartup   Trigger = "startup"
	TriggerFileEvent Trigger = "file_event"
	TriggerSchedule  Trigger = "schedule"
	TriggerManual    Trigger = "manual"
)

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Job is a single unit of work in the watch queue.
type Job struct {
	ID        string        `json:"id"`
	Kind      JobKind       `json:"kind"`
	Trigger   Trigger       `json:"trigger"`
	Reason    string        `json:"reason,omitempty"`
	Status    JobStatus     `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	StartedAt *time.Time    `json:"started_at,omitempty"`
	EndedAt   *time.Time    `json:"ended_at,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Error     string        `json:"error,omitempty"`

	cancel context.CancelFunc
}

// Runner executes a single job. Implementations must honor ctx cancellation.
type Runner interface {
	Run(ctx context.Context, job *Job) error
}

// Queue manages pending watch jobs and runs them on a fixed worker pool.
type Queue struct {
	jobs        chan *Job
	workers     int
	maxSize     int
	mu          sync.RWMutex
	active      map[string]*Job
	history     []*Job
	historySize int
	stopChan    chan struct{}
	wg          sync.WaitGroup
	runner      Runner
}

// NewQueue creates a job queue. Zero sizes fall back to sensible bounds.
func NewQueue(maxSize, workers, historySize int, runner Runner) *Queue {
	if maxSize <= 0 {
		maxSize = 50
	}
	if workers <= 0 {
		workers = 2
	}
	if historySize <= 0 {
		historySize = 20
	}

	return &Queue{
		jobs:        make(chan *Job, maxSize),
		workers:     workers,
		maxSize:     maxSize,
		active:      make(map[string]*Job),
		history:     make([]*Job, 0),
		historySize: historySize,
		stopChan:    make(chan struct{}),
		runner:      runner,
	}
}

// Start begins processing jobs with the configured number of workers.
func (q *Queue) Start(ctx context.Context) {
	slog.Info("Starting job queue", slog.Int("workers", q.workers), slog.Int("max_size", q.maxSize))

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, fmt.Sprintf("worker-%d", i))
	}
}

// Stop cancels active jobs and waits for workers to drain.
func (q *Queue) Stop(ctx context.Context) {
	slog.Info("Stopping job queue")

	close(q.stopChan)

	q.mu.Lock()
	for _, job := range q.active {
		if job.cancel != nil {
			job.cancel()
		}
	}
	q.mu.Unlock()

	q.wg.Wait()
	slog.Info("Job queue stopped")
}

// Enqueue adds a job without blocking. A full queue rejects the job; callers
// treat that as coalescing since a queued job already covers the trigger.
func (q *Queue) Enqueue(job *Job) error {
	if job == nil {
		return fmt.Errorf("job cannot be nil")
	}
	if job.ID == "" {
		return fmt.Errorf("job ID is required")
	}

	job.Status = JobStatusQueued

	select {
	case q.jobs <- job:
		slog.Info("Job enqueued",
			logfields.JobID(job.ID),
			slog.String("kind", string(job.Kind)),
			logfields.JobTrigger(string(job.Trigger)))
		return nil
	default:
		return fmt.Errorf("job queue is full")
	}
}

// Length returns the number of jobs waiting to run.
func (q *Queue) Length() int {
	return len(q.jobs)
}

// ActiveJobs returns a copy of the currently running jobs.
func (q *Queue) ActiveJobs() []*Job {
	q.mu.RLock()
	defer q.mu.RUnlock()

	active := make([]*Job, 0, len(q.active))
	for _, job := range q.active {
		active = append(active, job)
	}
	return active
}

// History returns recent finished jobs, oldest first.
func (q *Queue) History() []*Job {
	q.mu.RLock()
	defer q.mu.RUnlock()

	history := make([]*Job, len(q.history))
	copy(history, q.history)
	return history
}

func (q *Queue) worker(ctx context.Context, workerID string) {
	defer q.wg.Done()

	slog.Debug("Queue worker started", slog.String("worker", workerID))

	for {
		select {
		case <-ctx.Done():
			slog.Debug("Queue worker stopped by context", slog.String("worker", workerID))
			return
		case <-q.stopChan:
			slog.Debug("Queue worker stopped by stop signal", slog.String("worker", workerID))
			return
		case job := <-q.jobs:
			if job != nil {
				q.processJob(ctx, job, workerID)
			}
		}
	}
}

func (q *Queue) processJob(ctx context.Context, job *Job, workerID string) {
	jobCtx, cancel := context.WithCancel(ctx)
	job.cancel = cancel
	defer cancel()

	startTime := time.Now()
	job.StartedAt = &startTime
	job.Status = JobStatusRunning

	q.mu.Lock()
	q.active[job.ID] = job
	q.mu.Unlock()

	slog.Info("Job started",
		logfields.JobID(job.ID),
		slog.String("kind", string(job.Kind)),
		slog.String("worker", workerID))

	err := q.runner.Run(jobCtx, job)

	endTime := time.Now()
	job.EndedAt = &endTime
	job.Duration = endTime.Sub(*job.StartedAt)
	if err != nil {
		job.Status = JobStatusFailed
		job.Error = err.Error()
	} else {
		job.Status = JobStatusCompleted
	}

	q.mu.Lock()
	delete(q.active, job.ID)
	q.addToHistory(job)
	q.mu.Unlock()

	if err != nil {
		slog.Error("Job failed",
			logfields.JobID(job.ID),
			slog.String("kind", string(job.Kind)),
			slog.Duration("duration", job.Duration),
			logfields.Error(err))
	} else {
		slog.Info("Job completed",
			logfields.JobID(job.ID),
			slog.String("kind", string(job.Kind)),
			slog.Duration("duration", job.Duration))
	}
}

// addToHistory appends a finished job, keeping the newest historySize entries.
// Callers hold q.mu.
func (q *Queue) addToHistory(job *Job) {
	q.history = append(q.history, job)

	if len(q.history) > q.historySize {
		copy(q.history, q.history[len(q.history)-q.historySize:])
		q.history = q.history[:q.historySize]
	}
}
