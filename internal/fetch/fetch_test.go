package fetch

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocine/bookcat/internal/config"
	"github.com/geocine/bookcat/internal/library"
	"github.com/geocine/bookcat/internal/models"
	"github.com/geocine/bookcat/internal/rules"
)

func testFetcher(t *testing.T, records []*models.Book) *Fetcher {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.Normalize()
	f, err := NewFetcher(library.NewMemorySource(records), cfg, rules.Default())
	require.NoError(t, err)
	return f
}

func TestFetchNormalizes(t *testing.T) {
	f := testFetcher(t, []*models.Book{
		{
			ID:        1,
			Title:     "The Left Hand of Darkness",
			Authors:   []string{"Ursula K. Le Guin"},
			Tags:      []string{"Science Fiction", "[Amazon]", "+", "Wishlist", "~"},
			Timestamp: time.Now(),
		},
	})

	books, err := f.Fetch("epub")
	require.NoError(t, err)
	require.Len(t, books, 1)

	b := books[0]
	assert.Equal(t, "Left Hand of Darkness", b.TitleSort)
	assert.Equal(t, "Le Guin, Ursula K.", b.AuthorSort)
	// Bracketed tags, the read marker, the wishlist tag and excluded tags
	// never become genres
	assert.Equal(t, []string{"Science Fiction"}, b.Genres)
	assert.True(t, b.ReadStatus)
	assert.True(t, b.Wishlist)
	assert.Equal(t, "+", b.Prefix)
}

func TestFetchKeepsExplicitSorts(t *testing.T) {
	f := testFetcher(t, []*models.Book{
		{ID: 1, Title: "Dune", TitleSort: "Custom Sort", AuthorSort: "Custom, Author",
			Authors: []string{"Frank Herbert"}},
	})

	books, err := f.Fetch("epub")
	require.NoError(t, err)
	assert.Equal(t, "Custom Sort", books[0].TitleSort)
	assert.Equal(t, "Custom, Author", books[0].AuthorSort)
}

func TestFetchNoBooks(t *testing.T) {
	f := testFetcher(t, nil)

	_, err := f.Fetch("epub")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoBooks))
}

func TestFetchNoBooksNamesSearch(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Normalize()
	cfg.Catalog.Search = "tag:Nothing"

	f, err := NewFetcher(library.NewMemorySource([]*models.Book{
		{ID: 1, Title: "Dune", Authors: []string{"Frank Herbert"}},
	}), cfg, rules.Default())
	require.NoError(t, err)

	_, err = f.Fetch("epub")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoBooks))
	assert.Contains(t, err.Error(), "tag:Nothing")
}

func TestFetchBadExcludeGenre(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Epub.ExcludeGenre = "["

	_, err := NewFetcher(library.NewMemorySource(nil), cfg, rules.Default())
	require.Error(t, err)
}

func TestFetchShortDescription(t *testing.T) {
	f := testFetcher(t, []*models.Book{
		{ID: 1, Title: "Dune", Authors: []string{"Frank Herbert"},
			Description: "A sweeping epic of politics religion and ecology on the desert planet Arrakis where water is life and spice is power beyond measure."},
	})

	books, err := f.Fetch("epub")
	require.NoError(t, err)
	b := books[0]
	assert.NotEmpty(t, b.ShortDescription)
	assert.True(t, len(b.ShortDescription) <= 104, "clipped to profile length plus ellipsis")
	assert.Contains(t, b.Description, "<p>")
}
