package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/inletra/docsite/internal/config"
	"github.com/inletra/docsite/internal/content"
	"github.com/inletra/docsite/internal/errors"
	"github.com/inletra/docsite/internal/linkcheck"
	"github.com/inletra/docsite/internal/sitecheck"
	"github.com/inletra/docsite/internal/store"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Format   string   `short:"f" help:"Output format (text or json), overrides check.format"`
	Quiet    bool     `short:"q" help:"Quiet mode: only show errors, suppress warnings"`
	External bool     `help:"Also verify external links over HTTP"`
	Skip     []string `help:"Rule names to skip, in addition to check.skip_rules"`
}

func (ch *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// CLI flags layer on top of the check section of the configuration.
	if ch.Format != "" {
		format := config.NormalizeCheckFormat(ch.Format)
		if format == "" {
			return fmt.Errorf("unknown check format %q (expected text or json)", ch.Format)
		}
		cfg.Check.Format = format
	}
	if ch.External {
		cfg.Check.External = true
	}
	cfg.Check.SkipRules = append(cfg.Check.SkipRules, ch.Skip...)

	started := time.Now()
	result, inv, err := RunCheck(cfg, root.Config, ch.Quiet)
	if err != nil {
		return err
	}

	// Format and output results
	formatter := sitecheck.NewFormatter(string(cfg.Check.Format), isColorSupported())
	if err := formatter.Format(os.Stdout, result, inv.Dir); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	brokenLinks := 0
	if cfg.Check.External {
		brokenLinks, err = RunExternalCheck(cfg, inv)
		if err != nil {
			return err
		}
	}

	recordCheckRun(cfg, result, started)

	// Determine exit code based on results
	if result.HasErrors() {
		os.Exit(2) // Errors found (site would not resolve)
	} else if (result.HasWarnings() && !ch.Quiet) || brokenLinks > 0 {
		os.Exit(1) // Warnings present
	}

	return nil
}

// RunCheck scans the content tree and runs the structural rules against it.
func RunCheck(cfg *config.Config, configPath string, quiet bool) (*sitecheck.Result, *content.Inventory, error) {
	contentDir := ResolveContentDir(cfg, configPath)
	inv, err := content.Scan(contentDir)
	if err != nil {
		return nil, nil, fmt.Errorf("scan content: %w", err)
	}

	checker := sitecheck.NewChecker(&sitecheck.Config{
		Quiet:     quiet,
		Format:    string(cfg.Check.Format),
		SkipRules: cfg.Check.SkipRules,
	})
	result, err := checker.Run(cfg, inv)
	if err != nil {
		return nil, nil, fmt.Errorf("check failed: %w", err)
	}
	return result, inv, nil
}

// RunExternalCheck verifies absolute links over HTTP and returns the broken
// count. Requires the events section for the shared verification cache.
func RunExternalCheck(cfg *config.Config, inv *content.Inventory) (int, error) {
	if cfg.Events == nil {
		return 0, errors.ConfigRequired("events")
	}

	svc, err := linkcheck.NewService(cfg.Events)
	if err != nil {
		return 0, fmt.Errorf("link service: %w", err)
	}
	defer func() {
		_ = svc.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summary, err := svc.VerifyPages(ctx, store.NewRunID(), inv.Pages)
	if err != nil {
		return 0, fmt.Errorf("verify links: %w", err)
	}

	fmt.Printf("External links: %d checked, %d alive, %d broken (%d from cache)\n",
		summary.Links, summary.Alive, summary.Broken, summary.FromCache)
	return summary.Broken, nil
}

// recordCheckRun appends the run to the local history store. History is best
// effort; an unavailable store never fails the check itself.
func recordCheckRun(cfg *config.Config, result *sitecheck.Result, started time.Time) {
	st, err := store.NewSQLiteStore(ResolveStorePath(cfg))
	if err != nil {
		slog.Warn("Run history unavailable", "error", err)
		return
	}
	defer func() {
		_ = st.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rec := store.RunRecord{
		ID:        store.NewRunID(),
		Kind:      store.KindCheck,
		StartedAt: started,
		Duration:  time.Since(started),
		Outcome:   store.OutcomeFor(result.ErrorCount(), result.WarningCount()),
		Errors:    result.ErrorCount(),
		Warnings:  result.WarningCount(),
		Infos:     result.InfoCount(),
		Pages:     result.PagesTotal,
	}
	if err := st.Append(ctx, rec); err != nil {
		slog.Warn("Failed to record check run", "error", err)
	}
}
