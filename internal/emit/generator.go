package emit

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/inletra/docsite/internal/config"
	"github.com/inletra/docsite/internal/content"
	"github.com/inletra/docsite/internal/logfields"
	"github.com/inletra/docsite/internal/manifest"
	"github.com/inletra/docsite/internal/metrics"
)

// Generator assembles the renderer record from the authored configuration
// and the scanned content inventory.
type Generator struct {
	config    *config.Config
	outputDir string // final output dir
	stageDir  string // ephemeral staging dir for current run
	force     bool   // bypass the manifest-hash skip

	recorder metrics.Recorder
	// instrumentation hooks (not exported)
	onPageEmitted  func()
	onAssetEmitted func()
}

// NewGenerator creates a generator targeting the configured emit directory.
func NewGenerator(cfg *config.Config) *Generator {
	out := cfg.Emit.Directory
	if out == "" {
		out = "site"
	}
	if cfg.Emit.BaseDirectory != "" && !filepath.IsAbs(out) {
		out = filepath.Join(cfg.Emit.BaseDirectory, out)
	}
	return &Generator{config: cfg, outputDir: filepath.Clean(out), recorder: metrics.NoopRecorder{}}
}

// OutputDir returns the final output directory.
func (g *Generator) OutputDir() string { return g.outputDir }

// SetRecorder injects a metrics recorder (optional). Returns the generator for chaining.
func (g *Generator) SetRecorder(r metrics.Recorder) *Generator {
	if r == nil {
		g.recorder = metrics.NoopRecorder{}
		return g
	}
	g.recorder = r
	return g
}

// SetForce disables the unchanged-manifest skip so the record is always
// rebuilt. Returns the generator for chaining.
func (g *Generator) SetForce(force bool) *Generator {
	g.force = force
	return g
}

// EmitSite assembles a complete renderer record from the inventory.
func (g *Generator) EmitSite(ctx context.Context, runID string, inv *content.Inventory) error {
	_, err := g.EmitSiteWithReport(ctx, runID, inv)
	return err
}

// EmitSiteWithReport performs the emit run and returns a BuildReport with
// timings and counts. The report is non-nil whenever a run was attempted,
// including failed runs, so callers can persist the outcome.
func (g *Generator) EmitSiteWithReport(ctx context.Context, runID string, inv *content.Inventory) (*BuildReport, error) {
	slog.Info("Starting site emit",
		logfields.JobID(runID),
		slog.String("output", g.outputDir),
		slog.Int("pages", inv.Len()))

	report := newBuildReport(runID)
	g.onPageEmitted = func() { report.Pages++ }
	g.onAssetEmitted = func() { report.Assets++ }

	m, err := manifest.Build(runID, g.config, inv)
	if err != nil {
		return nil, fmt.Errorf("build manifest: %w", err)
	}
	hash, err := m.Hash()
	if err != nil {
		return nil, fmt.Errorf("hash manifest: %w", err)
	}
	report.ManifestHash = hash
	g.recorder.SetPagesTotal(inv.Len())

	if !g.force && g.existingRecordValidForSkip() {
		if prev, err := g.previousManifestHash(); err == nil && prev == hash {
			report.SkipReason = "no_changes"
			report.finish()
			if err := report.Persist(g.outputDir); err != nil {
				slog.Warn("Failed to persist emit report", "error", err)
			}
			slog.Info("Emit skipped, record is current", logfields.JobID(runID), "manifest_hash", hash)
			return report, nil
		}
	}

	if err := g.beginStaging(runID); err != nil {
		return nil, err
	}

	st := &emitState{Generator: g, Inventory: inv, Manifest: m, Report: report, RunID: runID}
	stages := NewPipeline().
		Add(StagePrepare, stagePrepare).
		Add(StageResolveConfig, stageResolveConfig).
		Add(StageNormalizeContent, stageNormalizeContent).
		Add(StageManifest, stageManifest).
		Build()

	if err := runStages(ctx, st, stages); err != nil {
		g.abortStaging()
		report.finish()
		g.recordRunMetrics(report)
		return report, err
	}

	report.finish()
	if err := g.finalizeStaging(); err != nil {
		g.abortStaging()
		return report, fmt.Errorf("finalize staging: %w", err)
	}
	// Persist report (best effort) inside final output directory.
	if err := report.Persist(g.outputDir); err != nil {
		slog.Warn("Failed to persist emit report", "error", err)
	}
	g.recordRunMetrics(report)

	slog.Info("Site emit completed",
		logfields.JobID(runID),
		slog.String("output", g.outputDir),
		slog.Int("pages", report.Pages),
		slog.Int("assets", report.Assets),
		slog.Int("errors", len(report.Errors)))
	return report, nil
}

func (g *Generator) recordRunMetrics(r *BuildReport) {
	g.recorder.ObserveEmitDuration(r.Duration())
	g.recorder.IncRunOutcome("emit", string(r.Outcome))
}

// existingRecordValidForSkip performs a lightweight integrity probe of the
// current output directory to decide whether the unchanged-manifest skip is
// safe. The skip is only allowed when:
//   - manifest.json exists (file, not directory)
//   - site.yaml exists
//   - pages/ directory exists and is non-empty
//
// Failing any check returns false, forcing a full emit so the record is
// regenerated.
func (g *Generator) existingRecordValidForSkip() bool {
	manifestPath := filepath.Join(g.outputDir, "manifest.json")
	if fi, err := os.Stat(manifestPath); err != nil || fi.IsDir() {
		return false
	}
	if fi, err := os.Stat(filepath.Join(g.outputDir, "site.yaml")); err != nil || fi.IsDir() {
		return false
	}
	pagesDir := filepath.Join(g.outputDir, "pages")
	if fi, err := os.Stat(pagesDir); err != nil || !fi.IsDir() {
		return false
	}
	entries, err := os.ReadDir(pagesDir)
	return err == nil && len(entries) > 0
}

// previousManifestHash reads the manifest of the current output directory
// and recomputes its input hash.
func (g *Generator) previousManifestHash() (string, error) {
	data, err := os.ReadFile(filepath.Join(g.outputDir, "manifest.json"))
	if err != nil {
		return "", err
	}
	prev, err := manifest.FromJSON(data)
	if err != nil {
		return "", err
	}
	return prev.Hash()
}

// buildRoot is the directory stages write into: the staging directory while
// a run is active, the output directory otherwise.
func (g *Generator) buildRoot() string {
	if g.stageDir != "" {
		return g.stageDir
	}
	return g.outputDir
}

// beginStaging creates an isolated staging directory for atomic emit output.
func (g *Generator) beginStaging(runID string) error {
	// Sibling staging dir: <output>.staging-<short id> (not inside output).
	suffix := runID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	stage := g.outputDir + ".staging-" + suffix
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	g.stageDir = stage
	slog.Debug("Initialized staging directory", "staging", stage, "final", g.outputDir)
	return nil
}

// finalizeStaging atomically promotes the staging directory to the final
// output location.
// Strategy:
//  1. Move existing outputDir (if exists) to outputDir.prev (overwrite if already there).
//  2. Rename staging -> outputDir.
//  3. With emit.clean, remove the backup asynchronously best-effort;
//     otherwise it stays behind for inspection.
func (g *Generator) finalizeStaging() error {
	if g.stageDir == "" {
		return fmt.Errorf("no staging directory initialized")
	}
	if _, err := os.Stat(g.stageDir); err != nil {
		slog.Error("Staging directory missing at finalize", "staging", g.stageDir, "error", err)
		return fmt.Errorf("staging directory missing: %w", err)
	}

	prev := g.outputDir + ".prev"
	// Remove old backup if present
	if _, err := os.Stat(prev); err == nil {
		// Try multiple times to remove previous backup (may be locked/in-use)
		for i := 0; i < 3; i++ {
			if err := os.RemoveAll(prev); err == nil {
				break
			}
			if i < 2 {
				time.Sleep(100 * time.Millisecond)
			}
		}
		// If still exists, try to force remove any remaining files
		if _, err := os.Stat(prev); err == nil {
			// Last resort: remove with chmod
			_ = filepath.Walk(prev, func(path string, _ os.FileInfo, err error) error {
				if err == nil {
					_ = os.Chmod(path, 0o755)
				}
				return nil
			})
			if err := os.RemoveAll(prev); err != nil {
				slog.Warn("Failed to remove previous backup", logfields.Path(prev), "error", err)
				// Continue anyway - rename will fail if prev still exists
			}
		}
	}
	if _, err := os.Stat(g.outputDir); err == nil {
		if err := os.Rename(g.outputDir, prev); err != nil {
			return fmt.Errorf("backup existing output: %w", err)
		}
	}
	if err := os.Rename(g.stageDir, g.outputDir); err != nil {
		return fmt.Errorf("promote staging: %w", err)
	}
	g.stageDir = ""
	if g.config.Emit.Clean {
		// Remove previous backup asynchronously (non-critical)
		go func(p string) {
			if err := os.RemoveAll(p); err != nil {
				slog.Warn("Failed to remove previous backup", logfields.Path(p), "error", err)
			}
		}(prev)
	}
	slog.Info("Promoted staging directory", "output", g.outputDir)
	return nil
}

// abortStaging removes any existing staging directory after a failed run to
// avoid orphaned temp dirs.
func (g *Generator) abortStaging() {
	if g.stageDir == "" {
		return
	}
	dir := g.stageDir
	g.stageDir = "" // prevent double cleanup
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("Failed to remove staging directory after abort", "staging", dir, "error", err)
	} else {
		slog.Debug("Removed staging directory after abort", "staging", dir)
	}
}
