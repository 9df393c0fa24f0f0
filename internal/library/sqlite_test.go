package library

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocine/bookcat/internal/testutil"
)

func seedLibrary(t *testing.T) string {
	return testutil.SeedLibrary(t)
}

func TestOpenLibraryMissing(t *testing.T) {
	_, err := OpenLibrary(t.TempDir())
	require.Error(t, err)
}

func TestSQLiteSourceBooks(t *testing.T) {
	src, err := OpenLibrary(seedLibrary(t))
	require.NoError(t, err)
	defer src.Close()

	books, err := src.Books(nil)
	require.NoError(t, err)
	require.Len(t, books, 2)

	dune := books[0]
	assert.Equal(t, "Dune", dune.Title)
	assert.Equal(t, []string{"Frank Herbert"}, dune.Authors)
	assert.Equal(t, "Herbert, Frank", dune.AuthorSort)
	assert.Equal(t, "Dune Chronicles", dune.Series)
	assert.Equal(t, 1.0, dune.SeriesIndex)
	assert.Equal(t, "Chilton Books", dune.Publisher)
	assert.Equal(t, []string{"EPUB"}, dune.Formats)
	assert.Equal(t, "9780441013593", dune.ISBN)
	assert.Equal(t, 8, dune.Rating)
	assert.ElementsMatch(t, []string{"Science Fiction", "+"}, dune.Tags)
	assert.Contains(t, dune.Description, "Spice")
	assert.Equal(t, 2026, dune.Timestamp.Year())
	assert.Equal(t, 1965, dune.PubDate.Year())
	assert.FileExists(t, dune.CoverPath)

	emma := books[1]
	assert.Empty(t, emma.CoverPath)
	assert.Empty(t, emma.Series)
}

func TestSQLiteSourceSearch(t *testing.T) {
	src, err := OpenLibrary(seedLibrary(t))
	require.NoError(t, err)
	defer src.Close()

	books, err := src.Books(mustParse(t, `tag:"=Science Fiction"`))
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
}

func TestLoadDateColumn(t *testing.T) {
	src, err := OpenLibrary(seedLibrary(t))
	require.NoError(t, err)
	defer src.Close()

	books, err := src.Books(nil)
	require.NoError(t, err)

	require.NoError(t, src.LoadDateColumn("date_read", books))
	assert.Equal(t, 2026, books[0].LastRead.Year())
	assert.True(t, books[1].LastRead.IsZero())

	// Unknown column is not an error
	require.NoError(t, src.LoadDateColumn("nope", books))
}

func TestFormatPath(t *testing.T) {
	root := seedLibrary(t)
	src, err := OpenLibrary(root)
	require.NoError(t, err)
	defer src.Close()

	path := src.FormatPath(1, "epub")
	assert.Equal(t, filepath.Join(root, "Frank Herbert", "Dune (1)",
		"Dune - Frank Herbert.epub"), path)

	assert.Empty(t, src.FormatPath(2, "epub"))
}
