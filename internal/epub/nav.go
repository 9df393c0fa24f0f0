package epub

import (
	"strings"

	"github.com/geocine/bookcat/internal/catalog"
	"github.com/geocine/bookcat/internal/config"
	"github.com/geocine/bookcat/internal/fetch"
	"github.com/geocine/bookcat/internal/models"
	"github.com/geocine/bookcat/internal/render"
)

// BuildNav derives the NCX navigation tree from the catalog views. Every
// Src it produces points at an anchor the renderer emits, so the three
// catalog documents stay consistent.
func BuildNav(cfg *config.Config, builder *catalog.Builder) []*NavPoint {
	var nav []*NavPoint

	for _, section := range builder.Sections() {
		switch section {
		case models.SectionAuthors:
			nav = append(nav, letterSection("Authors", render.DocByAuthor, "authors",
				builder.BooksByAuthor(), func(b *models.Book) string { return b.AuthorSort }))
		case models.SectionTitles:
			nav = append(nav, letterSection("Titles", render.DocByTitle, "",
				builder.BooksByTitle(), func(b *models.Book) string { return b.TitleSort }))
		case models.SectionSeries:
			nav = append(nav, letterSection("Series", render.DocBySeries, "series",
				builder.BooksBySeries(), func(b *models.Book) string { return b.Series }))
		case models.SectionGenres:
			nav = append(nav, genreSection(builder.Genres()))
		case models.SectionRecentlyAdded:
			nav = append(nav, dateSection("Recently Added", render.DocByDateAdded, builder.RecentlyAdded()))
		case models.SectionRecentlyRead:
			nav = append(nav, dateSection("Recently Read", render.DocByDateRead, builder.RecentlyRead()))
		case models.SectionDescriptions:
			nav = append(nav, descriptionSection(cfg, builder.BooksByTitle()))
		}
	}

	return nav
}

// letterSection builds a section navPoint with one article per letter bucket
func letterSection(title, doc, anchorSuffix string, books []*models.Book, keyFn func(*models.Book) string) *NavPoint {
	section := &NavPoint{Title: title, Src: "content/" + doc}

	for _, bucket := range catalog.GroupByLetter(books, keyFn) {
		section.Children = append(section.Children, &NavPoint{
			Title: bucket.Letter,
			Src:   "content/" + doc + "#" + render.LetterAnchor(bucket.Letter, anchorSuffix),
		})
	}
	return section
}

func genreSection(genres []*models.Genre) *NavPoint {
	section := &NavPoint{Title: "Genres"}

	for _, genre := range genres {
		doc := render.GenreDoc(genre.Key)
		np := &NavPoint{
			Title: genre.Tag,
			Src:   "content/" + doc + "#" + render.GenreAnchor(genre.Key),
		}
		if section.Src == "" {
			section.Src = "content/" + doc
		}
		section.Children = append(section.Children, np)
	}
	return section
}

func dateSection(title, doc string, buckets []models.DateBucket) *NavPoint {
	section := &NavPoint{Title: title, Src: "content/" + doc}

	for _, bucket := range buckets {
		section.Children = append(section.Children, &NavPoint{
			Title: bucket.Label,
			Src:   "content/" + doc + "#" + bucket.Anchor,
		})
	}
	return section
}

// descriptionSection builds one article per book. On the Kindle profile the
// articles carry the author and a clipped description so the reader can show
// them in its periodical view.
func descriptionSection(cfg *config.Config, books []*models.Book) *NavPoint {
	section := &NavPoint{Title: "Descriptions"}

	for _, book := range books {
		np := &NavPoint{
			Title: navTitle(book),
			Src:   "content/" + render.BookDoc(book.ID) + "#" + render.BookAnchor(book.ID),
		}
		if section.Src == "" {
			section.Src = "content/" + render.BookDoc(book.ID)
		}
		if cfg.Epub.GenerateForKindle {
			np.Author = clipRunes(book.Author(), cfg.Epub.AuthorClip)
			np.Description = fetch.ShortDescription(book.Description, cfg.Epub.DescriptionClip)
		}
		section.Children = append(section.Children, np)
	}
	return section
}

func navTitle(book *models.Book) string {
	if prefix := strings.TrimSpace(book.Prefix); prefix != "" {
		return prefix + " " + book.Title
	}
	return book.Title
}

func clipRunes(s string, max int) string {
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
