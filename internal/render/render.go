package render

import (
	"fmt"
	"strings"

	"github.com/geocine/bookcat/internal/catalog"
	"github.com/geocine/bookcat/internal/config"
	"github.com/geocine/bookcat/internal/models"
)

// Document is one finished XHTML content document of the catalog
type Document struct {
	Name  string // file name inside content/
	Title string
	HTML  []byte
}

// Renderer emits the XHTML content documents for one catalog
type Renderer struct {
	cfg     *config.Config
	builder *catalog.Builder
	pages   *Pages
	kindle  bool

	// IncludeThumbs switches the description pages to reference the
	// generated cover thumbnails
	IncludeThumbs bool
}

// NewRenderer creates a renderer over the computed catalog views
func NewRenderer(cfg *config.Config, builder *catalog.Builder) (*Renderer, error) {
	language := "en"
	if v, ok := cfg.Get("catalog.language"); ok {
		if s, isStr := v.(string); isStr {
			language = s
		}
	}

	pages, err := NewPages(language)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		cfg:     cfg,
		builder: builder,
		pages:   pages,
		kindle:  cfg.Epub.GenerateForKindle,
	}, nil
}

// Documents renders every content document in spine order
func (r *Renderer) Documents() ([]*Document, error) {
	var docs []*Document

	add := func(name, title, body string) error {
		html, err := r.pages.RenderPage(title, body)
		if err != nil {
			return err
		}
		docs = append(docs, &Document{Name: name, Title: title, HTML: []byte(html)})
		return nil
	}

	for _, section := range r.builder.Sections() {
		switch section {
		case models.SectionAuthors:
			if err := add(DocByAuthor, "Books by Author", r.byAuthorBody()); err != nil {
				return nil, err
			}
		case models.SectionTitles:
			if err := add(DocByTitle, "Books by Title", r.byTitleBody()); err != nil {
				return nil, err
			}
		case models.SectionSeries:
			if err := add(DocBySeries, "Books by Series", r.bySeriesBody()); err != nil {
				return nil, err
			}
		case models.SectionGenres:
			for _, genre := range r.builder.Genres() {
				if err := add(GenreDoc(genre.Key), genre.Tag, r.genreBody(genre)); err != nil {
					return nil, err
				}
			}
		case models.SectionRecentlyAdded:
			if err := add(DocByDateAdded, "Recently Added",
				r.dateBody(r.builder.RecentlyAdded())); err != nil {
				return nil, err
			}
		case models.SectionRecentlyRead:
			if err := add(DocByDateRead, "Recently Read",
				r.dateBody(r.builder.RecentlyRead())); err != nil {
				return nil, err
			}
		case models.SectionDescriptions:
			for _, book := range r.builder.BooksByTitle() {
				doc, err := r.descriptionDoc(book)
				if err != nil {
					return nil, err
				}
				docs = append(docs, doc)
			}
		}
	}

	return docs, nil
}

func (r *Renderer) byAuthorBody() string {
	var w strings.Builder
	fmt.Fprintf(&w, "<div class=\"authors\">\n")

	buckets := catalog.GroupByLetter(r.builder.BooksByAuthor(),
		func(b *models.Book) string { return b.AuthorSort })

	for _, bucket := range buckets {
		fmt.Fprintf(&w, "<p class=\"letter_index\"><a id=\"%s\"></a>%s</p>\n",
			LetterAnchor(bucket.Letter, "authors"), htmlEscape(bucket.Letter))

		currentAuthor := ""
		currentSeries := ""
		for _, book := range bucket.Books {
			if author := book.Author(); author != currentAuthor {
				currentAuthor = author
				currentSeries = ""
				fmt.Fprintf(&w, "<p class=\"author_index\"><a id=\"%s\"></a>%s</p>\n",
					AuthorAnchor(author), htmlEscape(author))
			}
			if book.Series != currentSeries {
				currentSeries = book.Series
				if book.Series != "" {
					fmt.Fprintf(&w, "<p class=\"series\">%s</p>\n", htmlEscape(book.Series))
				}
			}
			r.bookLine(&w, book, r.titleText(book))
		}
	}

	fmt.Fprintf(&w, "</div>\n")
	return w.String()
}

func (r *Renderer) byTitleBody() string {
	var w strings.Builder
	fmt.Fprintf(&w, "<div class=\"titles\">\n")

	buckets := catalog.GroupByLetter(r.builder.BooksByTitle(),
		func(b *models.Book) string { return b.TitleSort })

	for _, bucket := range buckets {
		fmt.Fprintf(&w, "<p class=\"letter_index\"><a id=\"%s\"></a>%s</p>\n",
			LetterAnchor(bucket.Letter, ""), htmlEscape(bucket.Letter))
		for _, book := range bucket.Books {
			r.bookLine(&w, book, r.titleText(book)+r.authorSuffix(book)+r.ratingSuffix(book))
		}
	}

	fmt.Fprintf(&w, "</div>\n")
	return w.String()
}

func (r *Renderer) bySeriesBody() string {
	var w strings.Builder
	fmt.Fprintf(&w, "<div class=\"series\">\n")

	buckets := catalog.GroupByLetter(r.builder.BooksBySeries(),
		func(b *models.Book) string { return b.Series })

	for _, bucket := range buckets {
		fmt.Fprintf(&w, "<p class=\"letter_index\"><a id=\"%s\"></a>%s</p>\n",
			LetterAnchor(bucket.Letter, "series"), htmlEscape(bucket.Letter))

		currentSeries := ""
		for _, book := range bucket.Books {
			if book.Series != currentSeries {
				currentSeries = book.Series
				fmt.Fprintf(&w, "<p class=\"series_index\"><a id=\"%s\"></a>%s</p>\n",
					SeriesAnchor(book.Series), htmlEscape(book.Series))
			}
			line := fmt.Sprintf("%s&#160;%s", book.SeriesIndexString(), r.titleText(book))
			r.bookLine(&w, book, line+r.authorSuffix(book))
		}
	}

	fmt.Fprintf(&w, "</div>\n")
	return w.String()
}

func (r *Renderer) genreBody(genre *models.Genre) string {
	var w strings.Builder
	fmt.Fprintf(&w, "<div class=\"genre\">\n")
	fmt.Fprintf(&w, "<p class=\"genre_index\"><a id=\"%s\"></a>%s</p>\n",
		GenreAnchor(genre.Key), htmlEscape(genre.Tag))

	currentAuthor := ""
	for _, book := range genre.Books {
		if author := book.Author(); author != currentAuthor {
			currentAuthor = author
			fmt.Fprintf(&w, "<p class=\"author_index\">%s</p>\n", r.authorText(book))
		}
		r.bookLine(&w, book, r.titleText(book)+r.ratingSuffix(book))
	}

	fmt.Fprintf(&w, "</div>\n")
	return w.String()
}

func (r *Renderer) dateBody(buckets []models.DateBucket) string {
	var w strings.Builder
	fmt.Fprintf(&w, "<div class=\"dates\">\n")

	for _, bucket := range buckets {
		fmt.Fprintf(&w, "<p class=\"date_index\"><a id=\"%s\"></a>%s</p>\n",
			bucket.Anchor, htmlEscape(bucket.Label))
		for _, book := range bucket.Books {
			r.bookLine(&w, book, r.titleText(book)+r.authorSuffix(book))
		}
	}

	fmt.Fprintf(&w, "</div>\n")
	return w.String()
}

func (r *Renderer) descriptionDoc(book *models.Book) (*Document, error) {
	data := map[string]interface{}{
		"id":            book.ID,
		"prefix":        strings.TrimSpace(book.Prefix) + " ",
		"title":         book.Title,
		"series":        book.Series,
		"series_index":  book.SeriesIndexString(),
		"author":        book.Author(),
		"author_anchor": AuthorAnchor(book.Author()),
		"rating":        RatingStars(book.Rating, r.kindle),
		"genres":        strings.Join(book.Genres, ", "),
		"publisher":     book.Publisher,
		"formats":       strings.Join(book.Formats, ", "),
		"comments":      book.Description,
	}
	if strings.TrimSpace(book.Prefix) == "" {
		data["prefix"] = ""
	}
	if !book.PubDate.IsZero() {
		data["pubyear"] = fmt.Sprintf("%d", book.PubDate.Year())
	}
	if r.IncludeThumbs && book.CoverPath != "" {
		data["thumb"] = ThumbFile(book)
	}

	body, err := r.pages.RenderDescription(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render description of %q: %w", book.Title, err)
	}

	html, err := r.pages.RenderPage(book.Title, body)
	if err != nil {
		return nil, err
	}

	return &Document{Name: BookDoc(book.ID), Title: book.Title, HTML: []byte(html)}, nil
}

// bookLine writes one book entry line with its prefix glyph
func (r *Renderer) bookLine(w *strings.Builder, book *models.Book, entry string) {
	prefix := strings.TrimSpace(book.Prefix)
	if prefix == "" {
		prefix = "&#160;"
	} else {
		prefix = htmlEscape(prefix)
	}
	fmt.Fprintf(w, "<p class=\"line_item\"><span class=\"prefix\">%s</span> <span class=\"entry\">%s</span></p>\n",
		prefix, entry)
}

// titleText returns the book title, linked to its description page when the
// catalog carries one
func (r *Renderer) titleText(book *models.Book) string {
	title := htmlEscape(book.Title)
	if !r.builder.HasSection(models.SectionDescriptions) {
		return title
	}
	return fmt.Sprintf("<a href=\"%s#%s\">%s</a>", BookDoc(book.ID), BookAnchor(book.ID), title)
}

// authorText returns the author name, cross-linked into the author section
// when cross references are on
func (r *Renderer) authorText(book *models.Book) string {
	author := htmlEscape(book.Author())
	if !r.cfg.Epub.CrossReferences || !r.builder.HasSection(models.SectionAuthors) {
		return author
	}
	return fmt.Sprintf("<a href=\"%s#%s\">%s</a>", DocByAuthor, AuthorAnchor(book.Author()), author)
}

func (r *Renderer) authorSuffix(book *models.Book) string {
	return " &#183; " + r.authorText(book)
}

func (r *Renderer) ratingSuffix(book *models.Book) string {
	if stars := RatingStars(book.Rating, r.kindle); stars != "" {
		return " (" + stars + ")"
	}
	return ""
}
