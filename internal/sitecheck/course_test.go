package sitecheck

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inletra/docsite/internal/config"
	"github.com/inletra/docsite/internal/content"
)

// loadCourseFixture loads the checked-in example course from testdata.
func loadCourseFixture(t *testing.T) (*config.Config, *content.Inventory) {
	t.Helper()
	cfg, err := config.Load(filepath.Join("testdata", "course.yaml"))
	require.NoError(t, err)
	inv, err := content.Scan(filepath.Join("testdata", "course"))
	require.NoError(t, err)
	return cfg, inv
}

func TestChecker_ExampleCourseIsClean(t *testing.T) {
	cfg, inv := loadCourseFixture(t)

	result, err := NewChecker(nil).Run(cfg, inv)
	require.NoError(t, err)
	require.Empty(t, result.Issues)
	require.Equal(t, 10, result.PagesTotal)

	require.Len(t, inv.Assets, 1)
	_, ok := inv.File("introduction/01_introduction/flowchart.svg")
	require.True(t, ok)
}

func TestChecker_ExampleCourseReadmeServesAsIndex(t *testing.T) {
	_, inv := loadCourseFixture(t)

	page, ok := inv.Page("introduction/02_basics/index")
	require.True(t, ok)
	require.Equal(t, "introduction/02_basics/README.md", page.RelativePath)
}

func TestChecker_ExampleCourseDetectsBrokenReferences(t *testing.T) {
	cfg, inv := loadCourseFixture(t)
	cfg.Theme.Nav = append(cfg.Theme.Nav, config.NavItem{Text: "Glossary", Link: "/glossary/"})
	cfg.Theme.Sidebar.Groups[2].Entries = append(cfg.Theme.Sidebar.Groups[2].Entries, "03_postmortems/")

	result, err := NewChecker(nil).Run(cfg, inv)
	require.NoError(t, err)
	require.True(t, result.HasErrors())
	require.Equal(t, 2, result.ExitCode())

	rules := make(map[string]int)
	for _, issue := range result.Issues {
		rules[issue.Rule]++
	}
	require.Equal(t, 1, rules["nav-unknown-target"])
	require.Equal(t, 1, rules["sidebar-missing-page"])
}

func TestChecker_ExampleCourseFlagsDuplicateSidebarEntries(t *testing.T) {
	cfg, inv := loadCourseFixture(t)
	group := &cfg.Theme.Sidebar.Groups[1]
	group.Entries = append(group.Entries, "01_trycatch/")

	result, err := NewChecker(nil).Run(cfg, inv)
	require.NoError(t, err)
	require.False(t, result.HasErrors())
	require.True(t, result.HasWarnings())

	var found bool
	for _, issue := range result.Issues {
		if issue.Rule == "sidebar-duplicate-entry" {
			found = true
			require.Equal(t, "/basics/", issue.Path)
		}
	}
	require.True(t, found, "expected a sidebar-duplicate-entry issue")
}
