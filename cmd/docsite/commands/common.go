package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/inletra/docsite/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docsite.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init    InitCmd    `cmd:"" help:"Initialize a new site configuration file"`
	Check   CheckCmd   `cmd:"" help:"Check the configuration against the content tree"`
	Emit    EmitCmd    `cmd:"" help:"Emit the resolved site description and page records"`
	Inspect InspectCmd `cmd:"" help:"Show the resolved navigation, sidebar and plugins"`
	History HistoryCmd `cmd:"" help:"List recent check and emit runs"`
	Watch   WatchCmd   `cmd:"" help:"Watch the site and re-run checks and emits on change"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// ResolveContentDir roots a relative content directory at the directory of the
// configuration file, so the command works from outside the site checkout.
func ResolveContentDir(cfg *config.Config, configPath string) string {
	dir := cfg.Content.Dir
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Clean(filepath.Join(filepath.Dir(configPath), dir))
}

// ResolveStorePath determines the run history database path.
// Priority: config store.path > default name, rooted at emit.base_directory when relative.
func ResolveStorePath(cfg *config.Config) string {
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

// isColorSupported checks if the terminal supports color output.
func isColorSupported() bool {
	// Check if stdout is a terminal
	if fileInfo, _ := os.Stdout.Stat(); (fileInfo.Mode() & os.ModeCharDevice) == 0 {
		return false
	}

	// Check NO_COLOR environment variable (https://no-color.org/)
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	// Check TERM environment variable
	term := os.Getenv("TERM")
	if term == "dumb" || term == "" {
		return false
	}

	return true
}
