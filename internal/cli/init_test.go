package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocine/bookcat/internal/config"
	"github.com/geocine/bookcat/internal/rules"
)

func TestInitScaffold(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-catalog")

	require.NoError(t, Init(InitOptions{
		Dir:     dir,
		Title:   "Home Library",
		Library: "/data/books",
	}))

	cfg, err := config.LoadFromFile(filepath.Join(dir, "catalog.toml"))
	require.NoError(t, err)
	assert.Equal(t, "Home Library", cfg.Catalog.Title)
	assert.Equal(t, "/data/books", cfg.Catalog.Library)
	assert.Equal(t, "rules.yaml", cfg.Catalog.Rules)
	assert.Equal(t, "tag:+", cfg.Epub.ReadBookMarker)

	rs, err := rules.LoadFromFile(filepath.Join(dir, "rules.yaml"))
	require.NoError(t, err)
	assert.Len(t, rs.Exclusions, 1)
	assert.Len(t, rs.Prefixes, 2)
}

func TestInitDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shelf")

	require.NoError(t, Init(InitOptions{Dir: dir}))

	cfg, err := config.LoadFromFile(filepath.Join(dir, "catalog.toml"))
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Catalog.Title)
}
