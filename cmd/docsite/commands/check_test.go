package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inletra/docsite/internal/config"
	"github.com/inletra/docsite/internal/sitecheck"
)

func TestRunCheck_CleanSite(t *testing.T) {
	configPath, _ := writeSiteFixture(t)
	cfg, err := config.Load(configPath)
	require.NoError(t, err)

	result, inv, err := RunCheck(cfg, configPath, false)
	require.NoError(t, err)
	require.Empty(t, result.Issues)
	require.Equal(t, 3, result.PagesTotal)
	require.Equal(t, 3, inv.Len())
	require.Equal(t, 0, result.ExitCode())
}

func TestRunCheck_ReportsMissingTargets(t *testing.T) {
	configPath, baseDir := writeSiteFixture(t)

	// Point one nav item and one sidebar entry at routes with no backing page.
	cfgYAML := fmt.Sprintf(`version: "1.0"
site:
  title: Test Site
theme:
  nav:
    - text: Home
      link: /
    - text: Missing
      link: /missing/
  sidebar:
    /basics/:
      - ""
      - setup
      - 02_missing/
content:
  dir: docs
emit:
  directory: site
  base_directory: %s
`, baseDir)
	require.NoError(t, os.WriteFile(configPath, []byte(cfgYAML), 0o644))

	cfg, err := config.Load(configPath)
	require.NoError(t, err)

	result, _, err := RunCheck(cfg, configPath, false)
	require.NoError(t, err)
	require.True(t, result.HasErrors())
	require.Equal(t, 2, result.ErrorCount())
	require.Equal(t, 2, result.ExitCode())

	var rules []string
	for _, issue := range result.Issues {
		if issue.Severity == sitecheck.SeverityError {
			rules = append(rules, issue.Rule)
		}
	}
	require.Contains(t, rules, "nav-unknown-target")
	require.Contains(t, rules, "sidebar-missing-page")
}

func TestRunCheck_SkipRulesSilenceFindings(t *testing.T) {
	configPath, baseDir := writeSiteFixture(t)

	cfgYAML := fmt.Sprintf(`version: "1.0"
site:
  title: Test Site
theme:
  nav:
    - text: Missing
      link: /missing/
content:
  dir: docs
emit:
  directory: site
  base_directory: %s
check:
  skip_rules:
    - nav-unknown-target
    - page-orphaned
`, baseDir)
	require.NoError(t, os.WriteFile(configPath, []byte(cfgYAML), 0o644))

	cfg, err := config.Load(configPath)
	require.NoError(t, err)

	result, _, err := RunCheck(cfg, configPath, false)
	require.NoError(t, err)
	require.False(t, result.HasErrors())
	for _, issue := range result.Issues {
		require.NotEqual(t, "nav-unknown-target", issue.Rule)
	}
}

func TestCheckCmd_CleanSiteExitsZero(t *testing.T) {
	configPath, _ := writeSiteFixture(t)

	// A clean result takes the plain-return path, so no os.Exit fires here.
	cmd := &CheckCmd{}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: configPath}))
}

func TestCheckCmd_RejectsUnknownFormat(t *testing.T) {
	configPath, _ := writeSiteFixture(t)

	cmd := &CheckCmd{Format: "xml"}
	err := cmd.Run(&Global{}, &CLI{Config: configPath})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown check format")
}

func TestRunExternalCheck_RequiresEventsConfig(t *testing.T) {
	configPath, _ := writeSiteFixture(t)
	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	require.Nil(t, cfg.Events)

	_, inv, err := RunCheck(cfg, configPath, false)
	require.NoError(t, err)

	_, err = RunExternalCheck(cfg, inv)
	require.Error(t, err)
	require.Contains(t, err.Error(), "required configuration missing")
}

func TestCheckCmd_QuietDowngradesWarnings(t *testing.T) {
	configPath, baseDir := writeSiteFixture(t)

	// A page without a description produces a warning-level finding only.
	undocumented := "---\ntitle: Extra\n---\n\n# Extra\n"
	require.NoError(t, os.WriteFile(
		filepath.Join(baseDir, "docs", "basics", "extra.md"), []byte(undocumented), 0o644))
	cfgYAML := fmt.Sprintf(`version: "1.0"
site:
  title: Test Site
theme:
  nav:
    - text: Home
      link: /
    - text: Basics
      link: /basics/
  sidebar:
    /basics/:
      - ""
      - setup
      - extra
content:
  dir: docs
emit:
  directory: site
  base_directory: %s
store:
  path: ":memory:"
`, baseDir)
	require.NoError(t, os.WriteFile(configPath, []byte(cfgYAML), 0o644))

	cfg, err := config.Load(configPath)
	require.NoError(t, err)

	result, _, err := RunCheck(cfg, configPath, false)
	require.NoError(t, err)
	require.False(t, result.HasErrors())
	require.True(t, result.HasWarnings())

	// Quiet filters the warning out of the result entirely.
	quietResult, _, err := RunCheck(cfg, configPath, true)
	require.NoError(t, err)
	require.Empty(t, quietResult.Issues)

	// With warnings only, quiet mode returns instead of calling os.Exit.
	cmd := &CheckCmd{Quiet: true}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: configPath}))
}
