package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/inletra/docsite/internal/config"
	"github.com/inletra/docsite/internal/content"
	"github.com/inletra/docsite/internal/emit"
	"github.com/inletra/docsite/internal/linkcheck"
	"github.com/inletra/docsite/internal/logfields"
	"github.com/inletra/docsite/internal/metrics"
	"github.com/inletra/docsite/internal/sitecheck"
	"github.com/inletra/docsite/internal/store"
)

// SiteRunner executes watch jobs against the current state of the site.
//
// Each job re-reads the configuration file, so a saved edit produces a fresh
// immutable snapshot; nothing from a previous run leaks into the next one.
type SiteRunner struct {
	configPath string
	store      store.Store
	recorder   metrics.Recorder
	links      *linkcheck.Service

	mu          sync.RWMutex
	lastCheck   *sitecheck.Result
	lastCheckAt time.Time
	contentDir  string
}

// NewSiteRunner creates a runner. The store may be nil when run records are
// not wanted (tests); the recorder falls back to a no-op.
func NewSiteRunner(configPath string, st store.Store, rec metrics.Recorder) *SiteRunner {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &SiteRunner{
		configPath: configPath,
		store:      st,
		recorder:   rec,
	}
}

// WithLinkService attaches the external link verifier used by scheduled
// recheck jobs.
func (r *SiteRunner) WithLinkService(svc *linkcheck.Service) *SiteRunner {
	r.links = svc
	return r
}

// LastCheck returns the most recent check result and when it finished.
// The result is nil until the first check job completes.
func (r *SiteRunner) LastCheck() (*sitecheck.Result, time.Time) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastCheck, r.lastCheckAt
}

// ContentDir returns the content directory of the last loaded snapshot.
func (r *SiteRunner) ContentDir() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.contentDir
}

// Run loads a configuration snapshot, scans the content tree and dispatches
// on the job kind.
func (r *SiteRunner) Run(ctx context.Context, job *Job) error {
	cfg, err := config.Load(r.configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	contentDir := resolveContentDir(cfg, r.configPath)
	r.mu.Lock()
	r.contentDir = contentDir
	r.mu.Unlock()

	inv, err := content.Scan(contentDir)
	if err != nil {
		return fmt.Errorf("scan content: %w", err)
	}

	switch job.Kind {
	case JobCheck:
		return r.runCheck(ctx, job, cfg, inv)
	case JobEmit:
		return r.runEmit(ctx, job, cfg, inv)
	case JobLinkRecheck:
		return r.runLinkRecheck(ctx, job, inv)
	default:
		return fmt.Errorf("unknown job kind: %s", job.Kind)
	}
}

func (r *SiteRunner) runCheck(_ context.Context, job *Job, cfg *config.Config, inv *content.Inventory) error {
	start := time.Now()
	checker := sitecheck.NewChecker(&sitecheck.Config{Format: "json"})
	result, err := checker.Run(cfg, inv)
	if err != nil {
		return fmt.Errorf("check run: %w", err)
	}
	duration := time.Since(start)

	r.mu.Lock()
	r.lastCheck = result
	r.lastCheckAt = time.Now()
	r.mu.Unlock()

	r.recorder.ObserveCheckDuration(duration)
	r.recorder.SetPagesTotal(result.PagesTotal)
	if n := result.ErrorCount(); n > 0 {
		r.recorder.AddIssues("error", n)
	}
	if n := result.WarningCount(); n > 0 {
		r.recorder.AddIssues("warning", n)
	}
	if n := result.InfoCount(); n > 0 {
		r.recorder.AddIssues("info", n)
	}
	outcome := store.OutcomeFor(result.ErrorCount(), result.WarningCount())
	r.recorder.IncRunOutcome(store.KindCheck, outcome)

	r.appendRecord(store.RunRecord{
		ID:        job.ID,
		Kind:      store.KindCheck,
		StartedAt: start,
		Duration:  duration,
		Outcome:   outcome,
		Errors:    result.ErrorCount(),
		Warnings:  result.WarningCount(),
		Infos:     result.InfoCount(),
		Pages:     result.PagesTotal,
	})

	slog.Info("Check run finished",
		logfields.JobID(job.ID),
		slog.String("outcome", outcome),
		slog.Int("errors", result.ErrorCount()),
		slog.Int("warnings", result.WarningCount()))
	return nil
}

func (r *SiteRunner) runEmit(ctx context.Context, job *Job, cfg *config.Config, inv *content.Inventory) error {
	start := time.Now()
	gen := emit.NewGenerator(cfg).SetRecorder(r.recorder)
	report, err := gen.EmitSiteWithReport(ctx, job.ID, inv)

	if report != nil {
		rec := store.RunRecord{
			ID:           job.ID,
			Kind:         store.KindEmit,
			StartedAt:    start,
			Duration:     report.Duration(),
			Outcome:      storeOutcome(report.Outcome),
			Errors:       len(report.Errors),
			Warnings:     len(report.Warnings),
			Pages:        report.Pages,
			ManifestHash: report.ManifestHash,
		}
		r.appendRecord(rec)
	}

	if err != nil {
		return fmt.Errorf("emit run: %w", err)
	}
	return nil
}

func (r *SiteRunner) runLinkRecheck(ctx context.Context, job *Job, inv *content.Inventory) error {
	if r.links == nil {
		slog.Warn("Link recheck requested but no link service is configured", logfields.JobID(job.ID))
		return nil
	}

	summary, err := r.links.VerifyPages(ctx, job.ID, inv.Pages)
	if err != nil {
		return fmt.Errorf("link recheck: %w", err)
	}

	slog.Info("Link recheck finished",
		logfields.JobID(job.ID),
		slog.Int("links", summary.Links),
		slog.Int("broken", summary.Broken),
		slog.Int("from_cache", summary.FromCache))
	return nil
}

// appendRecord persists a run record. Records outlive the job context: a run
// canceled halfway still leaves its failed record behind.
func (r *SiteRunner) appendRecord(rec store.RunRecord) {
	if r.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.store.Append(ctx, rec); err != nil {
		slog.Error("Failed to append run record", logfields.JobID(rec.ID), logfields.Error(err))
	}
}

// storeOutcome maps an emit report outcome onto the run-history vocabulary.
func storeOutcome(outcome emit.BuildOutcome) string {
	switch outcome {
	case emit.OutcomeSuccess:
		return store.OutcomeOK
	case emit.OutcomeWarning:
		return store.OutcomeWarnings
	default:
		return store.OutcomeFailed
	}
}

// resolveContentDir roots a relative content directory at the directory of
// the configuration file, matching how authors write the path.
func resolveContentDir(cfg *config.Config, configPath string) string {
	dir := cfg.Content.Dir
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Clean(filepath.Join(filepath.Dir(configPath), dir))
}
