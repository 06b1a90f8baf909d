package config

import (
	"strings"
	"testing"
)

func TestValidateConfig_Valid(t *testing.T) {
	if err := ValidateConfig(baseCfg()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "empty nav text",
			mutate:  func(c *Config) { c.Theme.Nav = []NavItem{{Text: "", Link: "/"}} },
			wantMsg: "text cannot be empty",
		},
		{
			name:    "empty nav link",
			mutate:  func(c *Config) { c.Theme.Nav = []NavItem{{Text: "Home", Link: ""}} },
			wantMsg: "link cannot be empty",
		},
		{
			name:    "relative nav link",
			mutate:  func(c *Config) { c.Theme.Nav = []NavItem{{Text: "Home", Link: "introduction/"}} },
			wantMsg: "must start with /",
		},
		{
			name: "sidebar prefix without trailing slash",
			mutate: func(c *Config) {
				c.Theme.Sidebar.Groups[0].Prefix = "/introduction"
			},
			wantMsg: "must start and end with /",
		},
		{
			name: "absolute sidebar entry",
			mutate: func(c *Config) {
				c.Theme.Sidebar.Groups[0].Entries = []string{"/basics/"}
			},
			wantMsg: "must be relative to the group",
		},
		{
			name: "sidebar entry escaping the group",
			mutate: func(c *Config) {
				c.Theme.Sidebar.Groups[0].Entries = []string{"../basics/"}
			},
			wantMsg: "may not traverse",
		},
		{
			name:    "unnamed plugin",
			mutate:  func(c *Config) { c.Plugins = []PluginDecl{{Name: ""}} },
			wantMsg: "name cannot be empty",
		},
		{
			name:    "empty content dir",
			mutate:  func(c *Config) { c.Content.Dir = "" },
			wantMsg: "content.dir",
		},
		{
			name:    "invalid base url",
			mutate:  func(c *Config) { c.Site.BaseURL = "docs" },
			wantMsg: "site.base_url",
		},
		{
			name: "emit directory equals content dir",
			mutate: func(c *Config) {
				c.Emit.Directory = "docs"
				c.Content.Dir = "docs"
			},
			wantMsg: "must not equal content.dir",
		},
		{
			name: "bad watch debounce",
			mutate: func(c *Config) {
				c.Watch = &WatchConfig{Debounce: "soon", LinkRecheckInterval: "1h", Workers: 1, QueueSize: 10}
			},
			wantMsg: "watch.debounce",
		},
		{
			name: "queue smaller than workers",
			mutate: func(c *Config) {
				c.Watch = &WatchConfig{Debounce: "2s", LinkRecheckInterval: "1h", Workers: 4, QueueSize: 2}
			},
			wantMsg: "queue_size",
		},
		{
			name: "failure ttl above success ttl",
			mutate: func(c *Config) {
				c.Events = &EventsConfig{
					URL: "nats://localhost:4222", CacheTTL: "1h",
					CacheTTLFailures: "24h", RequestTimeout: "10s",
				}
			},
			wantMsg: "cache_ttl_failures",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseCfg()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidateConfig_ExternalNavLink(t *testing.T) {
	cfg := baseCfg()
	cfg.Theme.Nav = append(cfg.Theme.Nav, NavItem{Text: "Upstream", Link: "https://example.com/docs"})
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("external nav link should validate, got %v", err)
	}
}
