package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/inletra/docsite/internal/config"
	"github.com/inletra/docsite/internal/content"
	"github.com/inletra/docsite/internal/emit"
	"github.com/inletra/docsite/internal/store"
)

// EmitCmd implements the 'emit' command.
type EmitCmd struct {
	Output string `short:"o" help:"Output directory for the emitted site description"`
	Clean  bool   `help:"Remove stale output before emitting"`
	Force  bool   `help:"Emit even when nothing changed since the previous run"`
}

func (e *EmitCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// CLI flags win over the emit section of the configuration. An explicit
	// --output is taken verbatim, so base_directory must not re-root it.
	if e.Output != "" {
		cfg.Emit.Directory = e.Output
		cfg.Emit.BaseDirectory = ""
	}
	if e.Clean {
		cfg.Emit.Clean = true
	}

	return RunEmit(cfg, root.Config, e.Force)
}

func RunEmit(cfg *config.Config, configPath string, force bool) error {
	// Provide friendly user-facing messages on stdout for CLI integration tests.
	fmt.Println("Starting docsite emit")

	contentDir := ResolveContentDir(cfg, configPath)
	inv, err := content.Scan(contentDir)
	if err != nil {
		return fmt.Errorf("scan content: %w", err)
	}

	gen := emit.NewGenerator(cfg).SetForce(force)

	slog.Info("Emitting site description",
		"content_dir", contentDir,
		"output", gen.OutputDir(),
		"pages", inv.Len(),
		"force", force)

	started := time.Now()
	report, err := gen.EmitSiteWithReport(context.Background(), store.NewRunID(), inv)
	if report != nil {
		recordEmitRun(cfg, report, started)
		fmt.Println(report.Summary())
	}
	if err != nil {
		return fmt.Errorf("emit failed: %w", err)
	}
	if report != nil && report.SkipReason != "" {
		return nil
	}

	slog.Info("Site description emitted", "output", gen.OutputDir())
	fmt.Println("Emit completed successfully")
	return nil
}

// recordEmitRun appends the run to the local history store. History is best
// effort; an unavailable store never fails the emit itself.
func recordEmitRun(cfg *config.Config, report *emit.BuildReport, started time.Time) {
	st, err := store.NewSQLiteStore(ResolveStorePath(cfg))
	if err != nil {
		slog.Warn("Run history unavailable", "error", err)
		return
	}
	defer func() {
		_ = st.Close()
	}()

	outcome := store.OutcomeFailed
	switch report.Outcome {
	case emit.OutcomeSuccess:
		outcome = store.OutcomeOK
	case emit.OutcomeWarning:
		outcome = store.OutcomeWarnings
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rec := store.RunRecord{
		ID:           report.BuildID,
		Kind:         store.KindEmit,
		StartedAt:    started,
		Duration:     report.Duration(),
		Outcome:      outcome,
		Errors:       len(report.Errors),
		Warnings:     len(report.Warnings),
		Pages:        report.Pages,
		ManifestHash: report.ManifestHash,
	}
	if err := st.Append(ctx, rec); err != nil {
		slog.Warn("Failed to record emit run", "error", err)
	}
}
