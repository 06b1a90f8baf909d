package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/inletra/docsite/internal/config"
	"github.com/inletra/docsite/internal/content"
)

func sampleManifest() *SiteManifest {
	return &SiteManifest{
		ID:          "run-123",
		GeneratedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		ConfigHash:  "config-hash-123",
		Site:        SiteInfo{Title: "Exceptions and Errors", Description: "A course"},
		Nav: []NavRecord{
			{Text: "Home", Link: "/"},
			{Text: "Introduction", Link: "/introduction/"},
		},
		SidebarGroups: []GroupRecord{
			{
				Prefix:  "/introduction/",
				Entries: []string{"", "01_introduction/"},
				Routes:  []string{"introduction/index", "introduction/01_introduction/index"},
			},
		},
		Plugins: []PluginRecord{
			{Name: "image-zoom", Options: map[string]any{"selector": ".content img"}},
		},
		Pages: []PageRecord{
			{Route: "introduction/index", Source: "introduction/index.md", Title: "Introduction", Hash: "abc"},
		},
		Outputs: Outputs{SiteConfigHash: "site-hash", PageCount: 1},
	}
}

func TestManifestSerialization(t *testing.T) {
	m := sampleManifest()

	jsonData, err := m.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	restored, err := FromJSON(jsonData)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}

	if restored.ID != m.ID {
		t.Errorf("expected ID %s, got %s", m.ID, restored.ID)
	}
	if restored.Site.Title != m.Site.Title {
		t.Errorf("expected title %s, got %s", m.Site.Title, restored.Site.Title)
	}
	if len(restored.SidebarGroups) != 1 || restored.SidebarGroups[0].Routes[1] != "introduction/01_introduction/index" {
		t.Errorf("sidebar groups not preserved: %+v", restored.SidebarGroups)
	}
	if len(restored.Pages) != 1 || restored.Pages[0].Route != "introduction/index" {
		t.Errorf("pages not preserved: %+v", restored.Pages)
	}
}

func TestManifestJSONStructure(t *testing.T) {
	jsonData, err := sampleManifest().ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(jsonData, &parsed); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}

	requiredFields := []string{"id", "generated_at", "config_hash", "site", "nav", "sidebar_groups", "pages", "outputs"}
	for _, field := range requiredFields {
		if _, ok := parsed[field]; !ok {
			t.Errorf("missing required field: %s", field)
		}
	}

	if site, ok := parsed["site"].(map[string]interface{}); ok {
		if _, ok := site["title"]; !ok {
			t.Error("missing site.title")
		}
	} else {
		t.Error("site is not an object")
	}
}

func TestManifestHash(t *testing.T) {
	m1 := sampleManifest()
	m2 := sampleManifest()
	m2.ID = "run-456"
	m2.GeneratedAt = m2.GeneratedAt.Add(time.Hour)

	hash1, err := m1.Hash()
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	hash2, err := m2.Hash()
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	// ID and timestamp are not inputs; identical content hashes equal.
	if hash1 != hash2 {
		t.Errorf("expected identical hashes, got %s and %s", hash1, hash2)
	}

	m3 := sampleManifest()
	m3.Pages[0].Hash = "changed"
	hash3, err := m3.Hash()
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash1 == hash3 {
		t.Error("expected different hashes when page content changes")
	}

	m4 := sampleManifest()
	m4.Nav = []NavRecord{m4.Nav[1], m4.Nav[0]}
	hash4, err := m4.Hash()
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash1 == hash4 {
		t.Error("expected different hashes when nav order changes")
	}
}

func TestManifestHashConsistency(t *testing.T) {
	m := sampleManifest()

	hash1, _ := m.Hash()
	hash2, _ := m.Hash()
	hash3, _ := m.Hash()

	if hash1 != hash2 || hash2 != hash3 {
		t.Errorf("hash not consistent: %s, %s, %s", hash1, hash2, hash3)
	}
	if len(hash1) != 64 {
		t.Errorf("expected 64-char hex string, got %d chars: %s", len(hash1), hash1)
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	for rel, data := range map[string]string{
		"index.md":              "---\ntitle: Home\ndescription: d\n---\n",
		"introduction/index.md": "---\ntitle: Introduction\ndescription: d\n---\n",
	} {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(data), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	inv, err := content.Scan(dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	cfg := &config.Config{
		Site: config.SiteConfig{Title: "Exceptions and Errors"},
		Theme: config.ThemeConfig{
			Nav: []config.NavItem{{Text: "Home", Link: "/"}},
			Sidebar: config.Sidebar{Groups: []config.SidebarGroup{
				{Prefix: "/introduction/", Entries: []string{""}},
			}},
		},
	}

	m, err := Build("run-1", cfg, inv)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if m.ConfigHash == "" {
		t.Error("config hash empty")
	}
	if len(m.Pages) != 2 {
		t.Fatalf("pages = %d", len(m.Pages))
	}
	for _, page := range m.Pages {
		if len(page.Hash) != 64 {
			t.Errorf("page %s hash = %q", page.Route, page.Hash)
		}
	}
	if len(m.SidebarGroups) != 1 || m.SidebarGroups[0].Routes[0] != "introduction/index" {
		t.Errorf("groups = %+v", m.SidebarGroups)
	}
	if m.Outputs.PageCount != 2 {
		t.Errorf("page count = %d", m.Outputs.PageCount)
	}
}
