package config

import (
	"strings"
	"testing"
)

func baseCfg() *Config {
	return &Config{
		Version: "1.0",
		Site:    SiteConfig{Title: "Exceptions and Errors", BaseURL: "/", Lang: "en-US"},
		Theme: ThemeConfig{
			Nav: []NavItem{{Text: "Home", Link: "/"}},
			Sidebar: Sidebar{Groups: []SidebarGroup{
				{Prefix: "/introduction/", Entries: []string{"", "01_introduction/"}},
			}},
			SidebarDepth: 1,
		},
		Content: ContentConfig{Dir: "docs"},
		Check:   CheckConfig{Format: CheckFormatText},
		Emit:    EmitConfig{Directory: "./site"},
	}
}

func TestNormalizeConfig_NilConfig(t *testing.T) {
	if _, err := NormalizeConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestNormalizeConfig_CheckFormatCaseFold(t *testing.T) {
	cfg := baseCfg()
	cfg.Check.Format = "JSON"

	res, err := NormalizeConfig(cfg)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Check.Format != CheckFormatJSON {
		t.Fatalf("format = %q, want %q", cfg.Check.Format, CheckFormatJSON)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "check.format") {
		t.Fatalf("warnings = %v", res.Warnings)
	}
}

func TestNormalizeConfig_UnknownCheckFormat(t *testing.T) {
	cfg := baseCfg()
	cfg.Check.Format = "xml"

	res, err := NormalizeConfig(cfg)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Check.Format != CheckFormatText {
		t.Fatalf("format = %q, want fallback %q", cfg.Check.Format, CheckFormatText)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v", res.Warnings)
	}
}

func TestNormalizeConfig_SidebarDepthBounds(t *testing.T) {
	tests := []struct {
		name      string
		depth     int
		want      int
		wantWarns int
	}{
		{"negative clamped silently", -2, 0, 0},
		{"in range untouched", 2, 2, 0},
		{"above max clamped with warning", 7, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseCfg()
			cfg.Theme.SidebarDepth = tt.depth

			res, err := NormalizeConfig(cfg)
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if cfg.Theme.SidebarDepth != tt.want {
				t.Fatalf("sidebar_depth = %d, want %d", cfg.Theme.SidebarDepth, tt.want)
			}
			if len(res.Warnings) != tt.wantWarns {
				t.Fatalf("warnings = %v, want %d", res.Warnings, tt.wantWarns)
			}
		})
	}
}

func TestNormalizeConfig_WatchBounds(t *testing.T) {
	cfg := baseCfg()
	cfg.Watch = &WatchConfig{Workers: -1, QueueSize: -5, HistorySize: -1}

	if _, err := NormalizeConfig(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Watch.Workers != 0 || cfg.Watch.QueueSize != 0 || cfg.Watch.HistorySize != 0 {
		t.Fatalf("negative watch values not clamped: %+v", cfg.Watch)
	}
}
