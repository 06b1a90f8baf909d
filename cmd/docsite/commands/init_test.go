package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inletra/docsite/internal/config"
)

func TestInitCmd_OutputDirectoryPlacesConfig(t *testing.T) {
	dir := t.TempDir()

	cmd := &InitCmd{Output: dir}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: "unused.yaml"}))

	written := filepath.Join(dir, "docsite.yaml")
	_, err := os.Stat(written)
	require.NoError(t, err)

	// The generated file must load cleanly.
	cfg, err := config.Load(written)
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Site.Title)
	require.NotEmpty(t, cfg.Theme.Nav)
}

func TestRunInit_RefusesOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsite.yaml")

	require.NoError(t, RunInit(path, false))
	err := RunInit(path, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "--force")

	require.NoError(t, RunInit(path, true))
}
