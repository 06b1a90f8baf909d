package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/inletra/docsite/internal/config"
	"github.com/inletra/docsite/internal/content"
)

// SiteManifest is a complete record of one emitted renderer record:
// the configuration inputs, the page set and the produced outputs.
type SiteManifest struct {
	ID            string         `json:"id"`
	GeneratedAt   time.Time      `json:"generated_at"`
	ConfigHash    string         `json:"config_hash"`
	Site          SiteInfo       `json:"site"`
	Nav           []NavRecord    `json:"nav"`
	SidebarGroups []GroupRecord  `json:"sidebar_groups"`
	Plugins       []PluginRecord `json:"plugins,omitempty"`
	Pages         []PageRecord   `json:"pages"`
	Outputs       Outputs        `json:"outputs"`
}

// SiteInfo captures the site-wide metadata the renderer consumes.
type SiteInfo struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// NavRecord is one navigation entry.
type NavRecord struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

// GroupRecord is one sidebar group with its resolved routes.
type GroupRecord struct {
	Prefix  string   `json:"prefix"`
	Entries []string `json:"entries"`
	Routes  []string `json:"routes"`
}

// PluginRecord is one plugin declaration.
type PluginRecord struct {
	Name    string         `json:"name"`
	Options map[string]any `json:"options,omitempty"`
}

// PageRecord is one emitted page.
type PageRecord struct {
	Route        string    `json:"route"`
	Source       string    `json:"source"`
	Title        string    `json:"title,omitempty"`
	Description  string    `json:"description,omitempty"`
	LastModified time.Time `json:"last_modified"`
	Hash         string    `json:"hash"`
}

// Outputs captures the produced artifacts.
type Outputs struct {
	SiteConfigHash string `json:"site_config_hash"`
	PageCount      int    `json:"page_count"`
	AssetCount     int    `json:"asset_count"`
}

// Build assembles a manifest from the loaded configuration and the
// scanned inventory. Page hashes are sha256 over the source bytes.
func Build(id string, cfg *config.Config, inv *content.Inventory) (*SiteManifest, error) {
	m := &SiteManifest{
		ID:          id,
		GeneratedAt: time.Now().UTC(),
		ConfigHash:  cfg.Snapshot(),
		Site: SiteInfo{
			Title:       cfg.Site.Title,
			Description: cfg.Site.Description,
		},
		Nav:           make([]NavRecord, 0, len(cfg.Theme.Nav)),
		SidebarGroups: make([]GroupRecord, 0, cfg.Theme.Sidebar.Len()),
		Pages:         make([]PageRecord, 0, inv.Len()),
	}

	for _, item := range cfg.Theme.Nav {
		m.Nav = append(m.Nav, NavRecord{Text: item.Text, Link: item.Link})
	}
	for _, group := range cfg.Theme.Sidebar.Groups {
		record := GroupRecord{
			Prefix:  group.Prefix,
			Entries: append([]string(nil), group.Entries...),
			Routes:  make([]string, 0, len(group.Entries)),
		}
		for _, entry := range group.Entries {
			record.Routes = append(record.Routes, content.ResolveEntry(group.Prefix, entry))
		}
		m.SidebarGroups = append(m.SidebarGroups, record)
	}
	for _, plugin := range cfg.Plugins {
		m.Plugins = append(m.Plugins, PluginRecord{Name: plugin.Name, Options: plugin.Options})
	}

	for _, page := range inv.Pages {
		raw, err := os.ReadFile(page.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", page.RelativePath, err)
		}
		m.Pages = append(m.Pages, PageRecord{
			Route:        page.Route,
			Source:       page.RelativePath,
			Title:        page.Meta.Title,
			Description:  page.Meta.Description,
			LastModified: page.LastModified,
			Hash:         fmt.Sprintf("%x", sha256.Sum256(raw)),
		})
	}

	m.Outputs.PageCount = len(m.Pages)
	m.Outputs.AssetCount = len(inv.Assets)
	return m, nil
}

// ToJSON serializes the manifest to JSON.
func (m *SiteManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*SiteManifest, error) {
	var m SiteManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

type pageHashInput struct {
	Route string `json:"route"`
	Hash  string `json:"hash"`
}

// Hash computes a deterministic hash over the manifest's inputs. Two
// manifests with identical configuration and page content hash equal,
// so an unchanged site can skip re-emitting.
func (m *SiteManifest) Hash() (string, error) {
	hashInput := struct {
		ConfigHash    string          `json:"config_hash"`
		Site          SiteInfo        `json:"site"`
		Nav           []NavRecord     `json:"nav"`
		SidebarGroups []GroupRecord   `json:"sidebar_groups"`
		Plugins       []PluginRecord  `json:"plugins"`
		Pages         []pageHashInput `json:"pages"`
	}{
		ConfigHash:    m.ConfigHash,
		Site:          m.Site,
		Nav:           m.Nav,
		SidebarGroups: m.SidebarGroups,
		Plugins:       m.Plugins,
	}
	for _, page := range m.Pages {
		hashInput.Pages = append(hashInput.Pages, pageHashInput{Route: page.Route, Hash: page.Hash})
	}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}
