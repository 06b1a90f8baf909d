package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/inletra/docsite/internal/config"
	"github.com/inletra/docsite/internal/store"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int    `short:"n" default:"20" help:"Maximum number of runs to list"`
	Kind  string `short:"k" help:"Only list runs of one kind (check or emit)"`
	ID    string `arg:"" optional:"" help:"Show a single run by ID"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if h.Kind != "" && h.Kind != store.KindCheck && h.Kind != store.KindEmit {
		return fmt.Errorf("unknown run kind %q (expected check or emit)", h.Kind)
	}

	st, err := store.NewSQLiteStore(ResolveStorePath(cfg))
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer func() {
		_ = st.Close()
	}()

	if h.ID != "" {
		return RunHistoryDetail(os.Stdout, st, h.ID)
	}
	return RunHistory(os.Stdout, st, h.Kind, h.Limit)
}

// RunHistory lists recent runs, newest first.
func RunHistory(w io.Writer, st store.Store, kind string, limit int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		runs []store.RunRecord
		err  error
	)
	if kind != "" {
		runs, err = st.RecentByKind(ctx, kind, limit)
	} else {
		runs, err = st.Recent(ctx, limit)
	}
	if err != nil {
		return fmt.Errorf("read run history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-5s  %-8s  %-19s  %10s  %6s\n",
		"ID", "KIND", "OUTCOME", "STARTED", "DURATION", "PAGES")
	for _, run := range runs {
		fmt.Fprintf(w, "%-36s  %-5s  %-8s  %-19s  %10s  %6d\n",
			run.ID, run.Kind, run.Outcome,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Duration.Round(time.Millisecond), run.Pages)
	}
	return nil
}

// RunHistoryDetail prints one run in full.
func RunHistoryDetail(w io.Writer, st store.Store, id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	run, err := st.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("read run %s: %w", id, err)
	}

	fmt.Fprintf(w, "Run %s\n", run.ID)
	fmt.Fprintf(w, "  kind:     %s\n", run.Kind)
	fmt.Fprintf(w, "  outcome:  %s\n", run.Outcome)
	fmt.Fprintf(w, "  started:  %s\n", run.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(w, "  duration: %s\n", run.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  issues:   %d errors, %d warnings, %d infos\n", run.Errors, run.Warnings, run.Infos)
	fmt.Fprintf(w, "  pages:    %d\n", run.Pages)
	if run.ManifestHash != "" {
		fmt.Fprintf(w, "  manifest: %s\n", run.ManifestHash)
	}
	return nil
}
