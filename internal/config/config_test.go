package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromStringAndGetters(t *testing.T) {
	toml := `
[catalog]
title = "Household Library"
basename = "Shelf"
search = "tag:Fiction"

[epub]
sections = ["authors", "titles", "descriptions"]
thumb-width = 1.5
generate-for-kindle = true

[bibtex]
entry-type = "book"
`

	cfg, err := LoadFromString(toml)
	require.NoError(t, err)

	assert.Equal(t, "Household Library", cfg.Catalog.Title)
	assert.Equal(t, "Shelf", cfg.Catalog.Basename)
	assert.Equal(t, "tag:Fiction", cfg.Catalog.Search)
	assert.Equal(t, []string{"authors", "titles", "descriptions"}, cfg.Epub.Sections)
	assert.Equal(t, 1.5, cfg.Epub.ThumbWidth)
	assert.True(t, cfg.Epub.GenerateForKindle)
	assert.Equal(t, "book", cfg.Bibtex.EntryType)

	// Defaults survive a partial file
	assert.Equal(t, "tag:+", cfg.Epub.ReadBookMarker)
	assert.Equal(t, "Wishlist", cfg.Epub.WishlistTag)
}

func TestUpdateFromEnv(t *testing.T) {
	// set and ensure cleanup
	_ = os.Setenv("BOOKCAT_CATALOG__TITLE", "Env Title")
	_ = os.Setenv("BOOKCAT_EPUB__THUMB-WIDTH", "1.8")
	t.Cleanup(func() {
		_ = os.Unsetenv("BOOKCAT_CATALOG__TITLE")
		_ = os.Unsetenv("BOOKCAT_EPUB__THUMB-WIDTH")
	})

	cfg := NewDefaultConfig()
	cfg.UpdateFromEnv()

	assert.Equal(t, "Env Title", cfg.Catalog.Title)
	assert.Equal(t, 1.8, cfg.Epub.ThumbWidth)
}

func TestNormalize(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Epub.ThumbWidth = 0.3
	cfg.Epub.GenerateForKindle = true

	notes := cfg.Normalize()

	require.Len(t, notes, 1)
	assert.Equal(t, 1.0, cfg.Epub.ThumbWidth)
	assert.Equal(t, "kindle", cfg.Epub.OutputProfile)
	assert.Equal(t, 380, cfg.Epub.DescriptionClip)
	assert.Equal(t, 100, cfg.Epub.AuthorClip)
}

func TestNormalizeDefaultProfileClips(t *testing.T) {
	cfg := NewDefaultConfig()
	notes := cfg.Normalize()

	assert.Empty(t, notes)
	assert.Equal(t, 100, cfg.Epub.DescriptionClip)
	assert.Equal(t, 60, cfg.Epub.AuthorClip)
}
