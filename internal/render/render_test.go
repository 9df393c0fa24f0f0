package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocine/bookcat/internal/catalog"
	"github.com/geocine/bookcat/internal/config"
	"github.com/geocine/bookcat/internal/models"
)

var testToday = time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

func testBooks() []*models.Book {
	return []*models.Book{
		{
			ID: 1, UUID: "aaaa-1111", Title: "Dune", TitleSort: "Dune",
			Authors: []string{"Frank Herbert"}, AuthorSort: "Herbert, Frank",
			Series: "Dune Chronicles", SeriesIndex: 1,
			Genres: []string{"Science Fiction"}, Rating: 10,
			Publisher: "Chilton", PubDate: time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC),
			Formats:     []string{"EPUB", "MOBI"},
			Description: "<p>Melange &amp; sandworms.</p>",
			CoverPath:   "/library/dune/cover.jpg",
			Prefix:      "+",
			Timestamp:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: 2, UUID: "bbbb-2222", Title: "Dune Messiah", TitleSort: "Dune Messiah",
			Authors: []string{"Frank Herbert"}, AuthorSort: "Herbert, Frank",
			Series: "Dune Chronicles", SeriesIndex: 2,
			Genres:    []string{"Science Fiction"},
			Timestamp: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: 4, UUID: "dddd-4444", Title: "Emma", TitleSort: "Emma",
			Authors: []string{"Jane Austen"}, AuthorSort: "Austen, Jane",
			Genres:    []string{"Fiction"},
			Timestamp: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
			LastRead:  time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
		},
	}
}

func newTestRenderer(t *testing.T, cfg *config.Config, books []*models.Book) *Renderer {
	t.Helper()
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	cfg.Normalize()
	builder, err := catalog.NewBuilder(cfg, books, testToday)
	require.NoError(t, err)
	r, err := NewRenderer(cfg, builder)
	require.NoError(t, err)
	return r
}

func docByName(t *testing.T, docs []*Document, name string) *Document {
	t.Helper()
	for _, d := range docs {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("document %s not rendered", name)
	return nil
}

func TestDocumentsSpineOrder(t *testing.T) {
	r := newTestRenderer(t, nil, testBooks())

	docs, err := r.Documents()
	require.NoError(t, err)

	var names []string
	for _, d := range docs {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{
		DocByAuthor, DocByTitle, DocBySeries,
		"Genre_fiction.html", "Genre_sciencefiction.html",
		DocByDateAdded, DocByDateRead,
		"book_1.html", "book_2.html", "book_4.html",
	}, names)
}

func TestByAuthorDocument(t *testing.T) {
	r := newTestRenderer(t, nil, testBooks())

	docs, err := r.Documents()
	require.NoError(t, err)
	html := string(docByName(t, docs, DocByAuthor).HTML)

	// XHTML shell around the section body
	assert.Contains(t, html, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>")
	assert.Contains(t, html, "<title>Books by Author</title>")

	// letter buckets keyed off the author sort
	assert.Contains(t, html, "<a id=\"Aauthors\"></a>A")
	assert.Contains(t, html, "<a id=\"Hauthors\"></a>H")
	assert.Contains(t, html, "<a id=\"FrankHerbert\"></a>Frank Herbert")
	assert.Contains(t, html, "<p class=\"series\">Dune Chronicles</p>")

	// titles link into the description pages
	assert.Contains(t, html, "<a href=\"book_1.html#book1\">Dune</a>")

	// the read marker prefix shows up on the line item
	assert.Contains(t, html, "<span class=\"prefix\">+</span>")
}

func TestByTitleDocument(t *testing.T) {
	r := newTestRenderer(t, nil, testBooks())

	docs, err := r.Documents()
	require.NoError(t, err)
	html := string(docByName(t, docs, DocByTitle).HTML)

	assert.Contains(t, html, "<a id=\"D\"></a>D")
	assert.Contains(t, html, "<a id=\"E\"></a>E")

	// author cross reference and rating stars on the entry line
	assert.Contains(t, html, "<a href=\"ByAlphaAuthor.html#FrankHerbert\">Frank Herbert</a>")
	assert.Contains(t, html, "(★★★★★)")
}

func TestBySeriesDocument(t *testing.T) {
	r := newTestRenderer(t, nil, testBooks())

	docs, err := r.Documents()
	require.NoError(t, err)
	html := string(docByName(t, docs, DocBySeries).HTML)

	assert.Contains(t, html, "<a id=\"DuneChronicles_series\"></a>Dune Chronicles")
	// series entries carry the index before the title
	assert.Contains(t, html, "1&#160;<a href=\"book_1.html#book1\">Dune</a>")
	assert.Contains(t, html, "2&#160;<a href=\"book_2.html#book2\">Dune Messiah</a>")
	assert.NotContains(t, html, "Emma")
}

func TestGenreDocument(t *testing.T) {
	r := newTestRenderer(t, nil, testBooks())

	docs, err := r.Documents()
	require.NoError(t, err)
	html := string(docByName(t, docs, "Genre_sciencefiction.html").HTML)

	assert.Contains(t, html, "<a id=\"Genre_sciencefiction\"></a>Science Fiction")
	assert.Contains(t, html, "Frank Herbert")
	assert.NotContains(t, html, "Emma")
}

func TestDateDocuments(t *testing.T) {
	r := newTestRenderer(t, nil, testBooks())

	docs, err := r.Documents()
	require.NoError(t, err)

	added := string(docByName(t, docs, DocByDateAdded).HTML)
	assert.Contains(t, added, "<a id=\"bda_30\"></a>Last 30 days")
	assert.Contains(t, added, "<a id=\"bda_2026-7\"></a>July 2026")

	read := string(docByName(t, docs, DocByDateRead).HTML)
	assert.Contains(t, read, "<a id=\"bdr_7\"></a>Past 7 days")
	assert.Contains(t, read, "Emma")
}

func TestDescriptionDocument(t *testing.T) {
	r := newTestRenderer(t, nil, testBooks())
	r.IncludeThumbs = true

	docs, err := r.Documents()
	require.NoError(t, err)
	html := string(docByName(t, docs, "book_1.html").HTML)

	assert.Contains(t, html, "<a id=\"book1\"></a>")
	assert.Contains(t, html, "+ Dune (Dune Chronicles [1])")
	assert.Contains(t, html, "<a href=\"ByAlphaAuthor.html#FrankHerbert\">Frank Herbert</a>")
	assert.Contains(t, html, "Chilton (1965)")
	assert.Contains(t, html, "EPUB, MOBI")
	assert.Contains(t, html, "../images/thumbnail_aaaa1111.jpg")
	// comments HTML passes through unescaped after the divider
	assert.Contains(t, html, "<hr class=\"description_divider\"/>")
	assert.Contains(t, html, "<p>Melange &amp; sandworms.</p>")
}

func TestDescriptionWithoutThumbs(t *testing.T) {
	r := newTestRenderer(t, nil, testBooks())

	docs, err := r.Documents()
	require.NoError(t, err)
	html := string(docByName(t, docs, "book_1.html").HTML)

	assert.NotContains(t, html, "../images/")
}

func TestNoDescriptionsMeansNoTitleLinks(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Epub.Sections = []string{"authors", "titles"}
	r := newTestRenderer(t, cfg, testBooks())

	docs, err := r.Documents()
	require.NoError(t, err)
	require.Len(t, docs, 2)

	html := string(docByName(t, docs, DocByTitle).HTML)
	assert.NotContains(t, html, "book_1.html")
	assert.Contains(t, html, "Dune")
}

func TestCrossReferencesOff(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Epub.CrossReferences = false
	r := newTestRenderer(t, cfg, testBooks())

	docs, err := r.Documents()
	require.NoError(t, err)
	html := string(docByName(t, docs, DocByTitle).HTML)

	assert.NotContains(t, html, "ByAlphaAuthor.html#")
	assert.Contains(t, html, "Frank Herbert")
}

func TestKindleRatingStars(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Epub.GenerateForKindle = true
	r := newTestRenderer(t, cfg, testBooks())

	docs, err := r.Documents()
	require.NoError(t, err)
	html := string(docByName(t, docs, DocByTitle).HTML)

	assert.Contains(t, html, "(*****)")
	assert.NotContains(t, html, "★")
}

func TestTitleEscaping(t *testing.T) {
	books := testBooks()
	books[0].Title = "Dune <Special> & More"

	r := newTestRenderer(t, nil, books)
	docs, err := r.Documents()
	require.NoError(t, err)
	html := string(docByName(t, docs, DocByTitle).HTML)

	assert.Contains(t, html, "Dune &lt;Special&gt; &amp; More")
	assert.False(t, strings.Contains(html, "<Special>"))
}

func TestRatingStars(t *testing.T) {
	assert.Equal(t, "", RatingStars(0, false))
	assert.Equal(t, "★☆☆☆☆", RatingStars(2, false))
	assert.Equal(t, "★★★☆☆", RatingStars(6, false))
	assert.Equal(t, "★★★★★", RatingStars(10, false))
	assert.Equal(t, "***", RatingStars(6, true))
}

func TestAnchors(t *testing.T) {
	assert.Equal(t, "UrsulaKLeGuin", AuthorAnchor("Ursula K. Le Guin"))
	assert.Equal(t, "DuneChronicles_series", SeriesAnchor("Dune Chronicles"))
	assert.Equal(t, "Genre_sciencefiction.html", GenreDoc("sciencefiction"))
	assert.Equal(t, "book_12.html", BookDoc(12))
	assert.Equal(t, "book12", BookAnchor(12))
	assert.Equal(t, "Sauthors", LetterAnchor("S", "authors"))
}
