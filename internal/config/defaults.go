package config

// ConfigDefaultApplier applies defaults for a specific configuration domain.
type ConfigDefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// SiteDefaultApplier handles site metadata defaults.
type SiteDefaultApplier struct{}

func (s *SiteDefaultApplier) Domain() string { return "site" }

func (s *SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Site.Title == "" {
		cfg.Site.Title = "Documentation"
	}
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = "/"
	}
	if cfg.Site.Lang == "" {
		cfg.Site.Lang = "en-US"
	}
	return nil
}

// ThemeDefaultApplier handles theme defaults.
type ThemeDefaultApplier struct{}

func (t *ThemeDefaultApplier) Domain() string { return "theme" }

func (t *ThemeDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Theme.SidebarDepth == 0 {
		cfg.Theme.SidebarDepth = 1
	}
	if cfg.Theme.EditLinks && cfg.Theme.EditLinkText == "" {
		cfg.Theme.EditLinkText = "Edit this page"
	}
	return nil
}

// ContentDefaultApplier handles content location defaults.
type ContentDefaultApplier struct{}

func (c *ContentDefaultApplier) Domain() string { return "content" }

func (c *ContentDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Content.Dir == "" {
		cfg.Content.Dir = "docs"
	}
	// Distinguish between nil slice and explicitly empty slice
	if cfg.Content.IgnorePatterns == nil {
		cfg.Content.IgnorePatterns = []string{"node_modules"}
	}
	return nil
}

// CheckDefaultApplier handles check defaults.
type CheckDefaultApplier struct{}

func (c *CheckDefaultApplier) Domain() string { return "check" }

func (c *CheckDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Check.Format == "" {
		cfg.Check.Format = CheckFormatText
	}
	return nil
}

// EmitDefaultApplier handles emit defaults.
type EmitDefaultApplier struct{}

func (e *EmitDefaultApplier) Domain() string { return "emit" }

func (e *EmitDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Emit.Directory == "" {
		cfg.Emit.Directory = "./site"
	}
	return nil
}

// StoreDefaultApplier handles run-store defaults.
type StoreDefaultApplier struct{}

func (s *StoreDefaultApplier) Domain() string { return "store" }

func (s *StoreDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Store.Path == "" {
		cfg.Store.Path = "./docsite-runs.db"
	}
	return nil
}

// WatchDefaultApplier handles watch-mode defaults.
type WatchDefaultApplier struct{}

func (w *WatchDefaultApplier) Domain() string { return "watch" }

func (w *WatchDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Watch == nil {
		return nil // No watch config to apply defaults to
	}

	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = "2s"
	}
	if cfg.Watch.HTTPAddr == "" {
		cfg.Watch.HTTPAddr = ":8082"
	}
	if cfg.Watch.Workers == 0 {
		cfg.Watch.Workers = 2
	}
	if cfg.Watch.QueueSize == 0 {
		cfg.Watch.QueueSize = 50
	}
	if cfg.Watch.HistorySize == 0 {
		cfg.Watch.HistorySize = 20
	}
	if cfg.Watch.LinkRecheckInterval == "" {
		cfg.Watch.LinkRecheckInterval = "1h"
	}
	return nil
}

// EventsDefaultApplier handles link-event defaults.
type EventsDefaultApplier struct{}

func (e *EventsDefaultApplier) Domain() string { return "events" }

func (e *EventsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Events == nil {
		return nil
	}

	ev := cfg.Events
	if ev.URL == "" {
		ev.URL = "nats://localhost:4222"
	}
	if ev.Subject == "" {
		ev.Subject = "docsite.links.broken"
	}
	if ev.KVBucket == "" {
		ev.KVBucket = "docsite-link-cache"
	}
	if ev.CacheTTL == "" {
		ev.CacheTTL = "24h"
	}
	if ev.CacheTTLFailures == "" {
		ev.CacheTTLFailures = "1h"
	}
	if ev.MaxConcurrent == 0 {
		ev.MaxConcurrent = 10
	}
	if ev.RequestTimeout == "" {
		ev.RequestTimeout = "10s"
	}
	return nil
}
