// Package watch implements author watch mode: a daemon that re-checks and
// re-emits the site when the configuration file or content tree changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/inletra/docsite/internal/config"
	"github.com/inletra/docsite/internal/linkcheck"
	"github.com/inletra/docsite/internal/logfields"
	"github.com/inletra/docsite/internal/metrics"
	"github.com/inletra/docsite/internal/store"
)

// Status represents the lifecycle state of the watch daemon.
type Status string

const (
	StatusStopped  Status = "stopped"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
	StatusError    Status = "error"
)

// Daemon ties the watch components together: file watcher, job queue,
// scheduler, run store and status HTTP server.
type Daemon struct {
	config     *config.Config
	configPath string
	status     atomic.Value // Status
	startTime  time.Time
	stopChan   chan struct{}
	mu         sync.RWMutex

	runner     *SiteRunner
	queue      *Queue
	watcher    *FileWatcher
	scheduler  *Scheduler
	httpServer *StatusServer
	runStore   store.Store
	links      *linkcheck.Service
	registry   *prom.Registry

	linkRecheckInterval time.Duration
}

// New assembles a daemon from a loaded configuration. configPath locates the
// file to watch; jobs re-read it so edits take effect on the next run.
func New(cfg *config.Config, configPath string) (*Daemon, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if cfg.Watch == nil {
		return nil, fmt.Errorf("watch configuration is required")
	}

	debounce, err := time.ParseDuration(cfg.Watch.Debounce)
	if err != nil {
		return nil, fmt.Errorf("invalid watch.debounce %q: %w", cfg.Watch.Debounce, err)
	}
	recheckInterval, err := time.ParseDuration(cfg.Watch.LinkRecheckInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid watch.link_recheck_interval %q: %w", cfg.Watch.LinkRecheckInterval, err)
	}

	d := &Daemon{
		config:              cfg,
		configPath:          configPath,
		stopChan:            make(chan struct{}),
		registry:            prom.NewRegistry(),
		linkRecheckInterval: recheckInterval,
	}
	d.status.Store(StatusStopped)

	recorder := metrics.NewPrometheusRecorder(d.registry)

	d.runStore, err = store.NewSQLiteStore(resolveStorePath(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open run store: %w", err)
	}

	// External link verification is optional; watch mode works without the
	// events backend, it just never schedules rechecks.
	if cfg.Events != nil {
		links, lerr := linkcheck.NewService(cfg.Events)
		if lerr != nil {
			slog.Warn("Link verification unavailable, scheduled rechecks disabled", logfields.Error(lerr))
		} else {
			d.links = links.WithRecorder(recorder)
		}
	}

	d.runner = NewSiteRunner(configPath, d.runStore, recorder).WithLinkService(d.links)
	d.queue = NewQueue(cfg.Watch.QueueSize, cfg.Watch.Workers, cfg.Watch.HistorySize, d.runner)

	contentDir := resolveContentDir(cfg, configPath)
	d.watcher, err = NewFileWatcher(configPath, contentDir, debounce, d.queue)
	if err != nil {
		d.runStore.Close()
		return nil, err
	}

	if d.links != nil {
		d.scheduler, err = NewScheduler(d.queue)
		if err != nil {
			d.runStore.Close()
			return nil, err
		}
	}

	d.httpServer = NewStatusServer(cfg.Watch.HTTPAddr, d)

	return d, nil
}

// Start brings up all components and blocks until the context is canceled
// or Stop is called.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.GetStatus() != StatusStopped {
		d.mu.Unlock()
		return fmt.Errorf("watch daemon is not in stopped state: %s", d.GetStatus())
	}

	d.status.Store(StatusStarting)
	d.startTime = time.Now()

	slog.Info("Starting watch daemon",
		logfields.Path(d.configPath),
		slog.String("http_addr", d.config.Watch.HTTPAddr))

	if err := d.httpServer.Start(ctx); err != nil {
		d.status.Store(StatusError)
		d.mu.Unlock()
		return fmt.Errorf("failed to start status server: %w", err)
	}

	d.queue.Start(ctx)

	if d.scheduler != nil {
		if _, err := d.scheduler.ScheduleLinkRecheck(d.linkRecheckInterval); err != nil {
			slog.Error("Failed to schedule link recheck", logfields.Error(err))
		}
		d.scheduler.Start(ctx)
	}

	if err := d.watcher.Start(ctx); err != nil {
		d.status.Store(StatusError)
		d.mu.Unlock()
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	d.status.Store(StatusRunning)
	slog.Info("Watch daemon started", slog.String("http_addr", d.httpServer.Addr()))

	// Queue an initial check and emit so the status endpoints have data
	// before the first edit.
	d.enqueueInitialJobs()

	d.mu.Unlock()

	d.mainLoop(ctx)

	// Stop may already have moved the status past stopping.
	if d.GetStatus() == StatusRunning {
		d.status.Store(StatusStopping)
	}
	slog.Info("Watch daemon main loop exited")
	return nil
}

// Stop shuts components down in reverse start order.
func (d *Daemon) Stop(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	current := d.GetStatus()
	if current == StatusStopped {
		return nil
	}

	d.status.Store(StatusStopping)
	slog.Info("Stopping watch daemon")

	select {
	case <-d.stopChan:
	default:
		close(d.stopChan)
	}

	if d.watcher != nil {
		if err := d.watcher.Stop(ctx); err != nil {
			slog.Error("Failed to stop file watcher", logfields.Error(err))
		}
	}

	if d.scheduler != nil {
		if err := d.scheduler.Stop(ctx); err != nil {
			slog.Error("Failed to stop scheduler", logfields.Error(err))
		}
	}

	if d.queue != nil {
		d.queue.Stop(ctx)
	}

	if d.httpServer != nil {
		if err := d.httpServer.Stop(ctx); err != nil {
			slog.Error("Failed to stop status server", logfields.Error(err))
		}
	}

	if d.links != nil {
		if err := d.links.Close(); err != nil {
			slog.Error("Failed to close link service", logfields.Error(err))
		}
	}

	if d.runStore != nil {
		if err := d.runStore.Close(); err != nil {
			slog.Error("Failed to close run store", logfields.Error(err))
		}
	}

	d.status.Store(StatusStopped)
	slog.Info("Watch daemon stopped", slog.Duration("uptime", time.Since(d.startTime)))
	return nil
}

func (d *Daemon) mainLoop(ctx context.Context) {
	select {
	case <-ctx.Done():
		slog.Info("Watch daemon stopped by context cancellation")
	case <-d.stopChan:
		slog.Info("Watch daemon stopped by stop signal")
	}
}

func (d *Daemon) enqueueInitialJobs() {
	for _, kind := range []JobKind{JobCheck, JobEmit} {
		job := &Job{
			ID:        store.NewRunID(),
			Kind:      kind,
			Trigger:   TriggerStartup,
			CreatedAt: time.Now(),
		}
		if err := d.queue.Enqueue(job); err != nil {
			slog.Error("Failed to enqueue initial job",
				slog.String("kind", string(kind)),
				logfields.Error(err))
		}
	}
}

// GetStatus returns the current daemon status.
func (d *Daemon) GetStatus() Status {
	status, ok := d.status.Load().(Status)
	if !ok {
		return StatusError
	}
	return status
}

// StartTime returns when the daemon started.
func (d *Daemon) StartTime() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.startTime
}

// HTTPAddr returns the bound status server address, empty before Start.
func (d *Daemon) HTTPAddr() string {
	return d.httpServer.Addr()
}

// resolveStorePath roots a relative run-store path at emit.base_directory
// when one is configured. ":memory:" passes through untouched.
func resolveStorePath(cfg *config.Config) string {
	path := cfg.Store.Path
	if path == "" {
		path = "./docsite-runs.db"
	}
	if path == ":memory:" {
		return path
	}
	if cfg.Emit.BaseDirectory != "" && !filepath.IsAbs(path) {
		path = filepath.Join(cfg.Emit.BaseDirectory, path)
	}
	return filepath.Clean(path)
}
