package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inletra/docsite/internal/store"
)

// writeWatchSite lays out a minimal site: config file, one documented page,
// in-memory run store, fast debounce.
func writeWatchSite(t *testing.T) (configPath, baseDir string) {
	t.Helper()
	baseDir = t.TempDir()

	docsDir := filepath.Join(baseDir, "docs")
	require.NoError(t, os.MkdirAll(docsDir, 0o755))

	page := `---
title: Home
description: Welcome to the course
---

# Home

Welcome.
`
	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "index.md"), []byte(page), 0o644))

	configPath = filepath.Join(baseDir, "docsite.yaml")
	cfgYAML := fmt.Sprintf(`version: "1.0"
site:
  title: Exceptions and Errors
  description: A course on exception handling
theme:
  nav:
    - text: Home
      link: /
content:
  dir: docs
emit:
  directory: site
  base_directory: %s
store:
  path: ":memory:"
watch:
  debounce: 100ms
  http_addr: "127.0.0.1:0"
  workers: 1
  queue_size: 10
  history_size: 5
  link_recheck_interval: 1h
`, baseDir)
	require.NoError(t, os.WriteFile(configPath, []byte(cfgYAML), 0o644))

	return configPath, baseDir
}

func newTestRunner(t *testing.T, configPath string) (*SiteRunner, store.Store) {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, st.Close()) })
	return NewSiteRunner(configPath, st, nil), st
}

func TestSiteRunner_CheckJobRecordsResult(t *testing.T) {
	configPath, _ := writeWatchSite(t)
	runner, st := newTestRunner(t, configPath)

	job := &Job{ID: "run-check-1", Kind: JobCheck, Trigger: TriggerManual}
	require.NoError(t, runner.Run(context.Background(), job))

	result, at := runner.LastCheck()
	require.NotNil(t, result)
	require.False(t, at.IsZero())
	require.Equal(t, 1, result.PagesTotal)

	rec, err := st.GetByID(context.Background(), "run-check-1")
	require.NoError(t, err)
	require.Equal(t, store.KindCheck, rec.Kind)
	require.Equal(t, 1, rec.Pages)
	require.NotEmpty(t, rec.Outcome)
}

func TestSiteRunner_EmitJobWritesRecord(t *testing.T) {
	configPath, baseDir := writeWatchSite(t)
	runner, st := newTestRunner(t, configPath)

	job := &Job{ID: "run-emit-1", Kind: JobEmit, Trigger: TriggerManual}
	require.NoError(t, runner.Run(context.Background(), job))

	require.FileExists(t, filepath.Join(baseDir, "site", "site.yaml"))
	require.FileExists(t, filepath.Join(baseDir, "site", "manifest.json"))
	require.FileExists(t, filepath.Join(baseDir, "site", "pages", "index.md"))

	rec, err := st.GetByID(context.Background(), "run-emit-1")
	require.NoError(t, err)
	require.Equal(t, store.KindEmit, rec.Kind)
	require.Equal(t, store.OutcomeOK, rec.Outcome)
	require.Equal(t, 1, rec.Pages)
	require.Len(t, rec.ManifestHash, 64)
}

func TestSiteRunner_EachRunLoadsFreshSnapshot(t *testing.T) {
	configPath, baseDir := writeWatchSite(t)
	runner, _ := newTestRunner(t, configPath)

	require.NoError(t, runner.Run(context.Background(), &Job{ID: "run-1", Kind: JobEmit}))

	// Rewrite the configuration between jobs; the next run must see it.
	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "title: Exceptions and Errors")
	updated := strings.Replace(string(data), "title: Exceptions and Errors", "title: Renamed Course", 1)
	require.NoError(t, os.WriteFile(configPath, []byte(updated), 0o644))

	require.NoError(t, runner.Run(context.Background(), &Job{ID: "run-2", Kind: JobEmit}))

	record, err := os.ReadFile(filepath.Join(baseDir, "site", "site.yaml"))
	require.NoError(t, err)
	require.Contains(t, string(record), "Renamed Course")
}

func TestSiteRunner_LinkRecheckWithoutServiceIsNoop(t *testing.T) {
	configPath, _ := writeWatchSite(t)
	runner, _ := newTestRunner(t, configPath)

	job := &Job{ID: "run-links-1", Kind: JobLinkRecheck, Trigger: TriggerSchedule}
	require.NoError(t, runner.Run(context.Background(), job))
}

func TestSiteRunner_UnknownKindFails(t *testing.T) {
	configPath, _ := writeWatchSite(t)
	runner, _ := newTestRunner(t, configPath)

	err := runner.Run(context.Background(), &Job{ID: "run-x", Kind: JobKind("render")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown job kind")
}

func TestSiteRunner_MissingConfigFails(t *testing.T) {
	runner := NewSiteRunner(filepath.Join(t.TempDir(), "absent.yaml"), nil, nil)

	err := runner.Run(context.Background(), &Job{ID: "run-y", Kind: JobCheck})
	require.Error(t, err)
	require.Contains(t, err.Error(), "load configuration")
}
