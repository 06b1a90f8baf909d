package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/inletra/docsite/internal/config"
	"github.com/inletra/docsite/internal/errors"
	"github.com/inletra/docsite/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	HTTPAddr string `name:"http-addr" help:"Override watch.http_addr for the status server"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Watch == nil {
		return errors.ConfigRequired("watch")
	}
	if w.HTTPAddr != "" {
		cfg.Watch.HTTPAddr = w.HTTPAddr
	}
	return RunWatch(cfg, root.Config)
}

func RunWatch(cfg *config.Config, configPath string) error {
	slog.Info("Starting watch mode", "config", configPath)

	// Create main context for the daemon
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d, err := watch.New(cfg, configPath)
	if err != nil {
		return fmt.Errorf("failed to create watch daemon: %w", err)
	}

	// Start daemon in a goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- d.Start(ctx)
	}()

	slog.Info("Watch mode started, waiting for shutdown signal...")

	// Wait for either error or shutdown signal
	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("watch daemon error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping watch daemon...")
	}

	// Stop daemon gracefully
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()

	if err := d.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop watch daemon: %w", err)
	}

	slog.Info("Watch daemon stopped successfully")
	return nil
}
