package watch

import (
	"context"
	"time"

	"github.com/inletra/docsite/internal/store"
)

// StatusData is the document served by the /api/status endpoint.
type StatusData struct {
	Daemon      DaemonInfo        `json:"daemon"`
	Queue       QueueInfo         `json:"queue"`
	LastCheck   *CheckSummary     `json:"last_check,omitempty"`
	RecentRuns  []store.RunRecord `json:"recent_runs"`
	LastUpdated time.Time         `json:"last_updated"`
}

// DaemonInfo holds basic daemon information.
type DaemonInfo struct {
	Status     Status    `json:"status"`
	StartTime  time.Time `json:"start_time"`
	Uptime     string    `json:"uptime"`
	ConfigPath string    `json:"config_path"`
	ContentDir string    `json:"content_dir,omitempty"`
}

// QueueInfo reports the state of the job queue.
type QueueInfo struct {
	Length  int    `json:"length"`
	Active  []*Job `json:"active"`
	History []*Job `json:"history"`
}

// CheckSummary condenses the last completed check run.
type CheckSummary struct {
	CheckedAt  time.Time `json:"checked_at"`
	PagesTotal int       `json:"pages_total"`
	Errors     int       `json:"errors"`
	Warnings   int       `json:"warnings"`
	Infos      int       `json:"infos"`
}

// GenerateStatusData collects current state for the status endpoint.
func (d *Daemon) GenerateStatusData(ctx context.Context) *StatusData {
	status := &StatusData{
		LastUpdated: time.Now(),
		RecentRuns:  []store.RunRecord{},
	}

	status.Daemon = DaemonInfo{
		Status:     d.GetStatus(),
		StartTime:  d.StartTime(),
		Uptime:     time.Since(d.StartTime()).Round(time.Second).String(),
		ConfigPath: d.configPath,
		ContentDir: d.runner.ContentDir(),
	}

	status.Queue = QueueInfo{
		Length:  d.queue.Length(),
		Active:  d.queue.ActiveJobs(),
		History: d.queue.History(),
	}

	if result, at := d.runner.LastCheck(); result != nil {
		status.LastCheck = &CheckSummary{
			CheckedAt:  at,
			PagesTotal: result.PagesTotal,
			Errors:     result.ErrorCount(),
			Warnings:   result.WarningCount(),
			Infos:      result.InfoCount(),
		}
	}

	// Best-effort: a store error leaves the runs list empty rather than
	// failing the whole status document.
	if d.runStore != nil {
		if runs, err := d.runStore.Recent(ctx, 10); err == nil && runs != nil {
			status.RecentRuns = runs
		}
	}

	return status
}
