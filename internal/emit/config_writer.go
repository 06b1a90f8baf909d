package emit

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/inletra/docsite/internal/config"
	"github.com/inletra/docsite/internal/logfields"
)

// siteRecord is the emitted site.yaml document: the exact fields the
// renderer consumes. Plugins move under themeConfig here even though the
// authored file declares them at the top level.
type siteRecord struct {
	Title       string      `yaml:"title"`
	Description string      `yaml:"description,omitempty"`
	ThemeConfig themeRecord `yaml:"themeConfig"`
}

type themeRecord struct {
	Nav     []config.NavItem    `yaml:"nav,omitempty"`
	Sidebar config.Sidebar      `yaml:"sidebar,omitempty"`
	Plugins []config.PluginDecl `yaml:"plugins,omitempty"`
}

// marshalSiteRecord renders the renderer-facing configuration document.
// Sidebar groups and plugin declarations keep their authored order; plugin
// option maps serialize with sorted keys, so equal configurations produce
// byte-identical records.
func marshalSiteRecord(cfg *config.Config) ([]byte, error) {
	record := siteRecord{
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		ThemeConfig: themeRecord{
			Nav:     cfg.Theme.Nav,
			Sidebar: cfg.Theme.Sidebar,
			Plugins: cfg.Plugins,
		},
	}
	data, err := yaml.Marshal(&record)
	if err != nil {
		return nil, fmt.Errorf("marshal site record: %w", err)
	}
	return data, nil
}

// stageResolveConfig writes site.yaml into the staging root and records its
// content hash for the manifest outputs.
func stageResolveConfig(_ context.Context, st *emitState) error {
	g := st.Generator
	data, err := marshalSiteRecord(g.config)
	if err != nil {
		return newFatalStageError(StageResolveConfig, err)
	}
	path := filepath.Join(g.buildRoot(), "site.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return newFatalStageError(StageResolveConfig, fmt.Errorf("write site.yaml: %w", err))
	}
	st.siteConfigHash = fmt.Sprintf("%x", sha256.Sum256(data))
	slog.Debug("Wrote site configuration record", logfields.Path(path), slog.Int("bytes", len(data)))
	return nil
}

// stageManifest fills the output fields of the prebuilt manifest and writes
// manifest.json into the staging root.
func stageManifest(_ context.Context, st *emitState) error {
	st.Manifest.Outputs.SiteConfigHash = st.siteConfigHash
	data, err := st.Manifest.ToJSON()
	if err != nil {
		return newFatalStageError(StageManifest, err)
	}
	path := filepath.Join(st.Generator.buildRoot(), "manifest.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return newFatalStageError(StageManifest, fmt.Errorf("write manifest.json: %w", err))
	}
	slog.Debug("Wrote site manifest", logfields.Path(path), slog.Int("pages", st.Manifest.Outputs.PageCount))
	return nil
}
