package config

import "testing"

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	if err := NewDefaultApplier().ApplyDefaults(cfg); err != nil {
		t.Fatalf("apply defaults: %v", err)
	}

	if cfg.Site.Title != "Documentation" {
		t.Fatalf("site.title = %q", cfg.Site.Title)
	}
	if cfg.Site.BaseURL != "/" || cfg.Site.Lang != "en-US" {
		t.Fatalf("site defaults not applied: %+v", cfg.Site)
	}
	if cfg.Content.Dir != "docs" {
		t.Fatalf("content.dir = %q", cfg.Content.Dir)
	}
	if cfg.Check.Format != CheckFormatText {
		t.Fatalf("check.format = %q", cfg.Check.Format)
	}
	if cfg.Emit.Directory != "./site" {
		t.Fatalf("emit.directory = %q", cfg.Emit.Directory)
	}
	if cfg.Store.Path != "./docsite-runs.db" {
		t.Fatalf("store.path = %q", cfg.Store.Path)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Site:    SiteConfig{Title: "Exceptions and Errors", Lang: "de-DE"},
		Content: ContentConfig{Dir: "course", IgnorePatterns: []string{}},
	}
	if err := NewDefaultApplier().ApplyDefaults(cfg); err != nil {
		t.Fatalf("apply defaults: %v", err)
	}

	if cfg.Site.Title != "Exceptions and Errors" || cfg.Site.Lang != "de-DE" {
		t.Fatalf("explicit site values overwritten: %+v", cfg.Site)
	}
	if cfg.Content.Dir != "course" {
		t.Fatalf("content.dir = %q", cfg.Content.Dir)
	}
	if len(cfg.Content.IgnorePatterns) != 0 {
		t.Fatalf("empty ignore list replaced: %v", cfg.Content.IgnorePatterns)
	}
}

func TestApplyDefaults_WatchAndEventsOptional(t *testing.T) {
	cfg := &Config{}
	if err := NewDefaultApplier().ApplyDefaults(cfg); err != nil {
		t.Fatalf("apply defaults: %v", err)
	}
	if cfg.Watch != nil || cfg.Events != nil {
		t.Fatal("watch and events should stay nil unless configured")
	}

	cfg = &Config{Watch: &WatchConfig{}, Events: &EventsConfig{}}
	if err := NewDefaultApplier().ApplyDefaults(cfg); err != nil {
		t.Fatalf("apply defaults: %v", err)
	}
	if cfg.Watch.Debounce != "2s" || cfg.Watch.Workers != 2 {
		t.Fatalf("watch defaults not applied: %+v", cfg.Watch)
	}
	if cfg.Events.URL != "nats://localhost:4222" || cfg.Events.KVBucket != "docsite-link-cache" {
		t.Fatalf("events defaults not applied: %+v", cfg.Events)
	}
}

func TestGetApplierByDomain(t *testing.T) {
	applier := NewDefaultApplier()
	for _, domain := range []string{"site", "theme", "content", "check", "emit", "store", "watch", "events"} {
		if applier.GetApplierByDomain(domain) == nil {
			t.Fatalf("no applier registered for %q", domain)
		}
	}
	if applier.GetApplierByDomain("unknown") != nil {
		t.Fatal("unexpected applier for unknown domain")
	}
}
