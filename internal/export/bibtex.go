package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/geocine/bookcat/internal/config"
	"github.com/geocine/bookcat/internal/fetch"
	"github.com/geocine/bookcat/internal/models"
)

var citationFieldRe = regexp.MustCompile(`\{(\w+)\}`)

var nonWordOrASCIIRe = regexp.MustCompile(`[^0-9a-zA-Z]`)

// asciiFold strips diacritics and then everything outside ASCII
var asciiFold = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	norm.NFC,
)

// WriteBibtex writes the records as BibTeX entries. Books with full
// bibliographic data become @book entries, the rest @misc, unless the
// configured entry type forces one of the two.
func WriteBibtex(w io.Writer, cfg *config.Config, books []*models.Book) error {
	sorted, err := SortBooks(books, cfg.Catalog.SortBy)
	if err != nil {
		return err
	}

	entryType := strings.ToLower(cfg.Bibtex.EntryType)
	switch entryType {
	case "", "mixed":
		entryType = "mixed"
	case "book", "misc":
	default:
		return fmt.Errorf("unknown bibtex entry type %q", cfg.Bibtex.EntryType)
	}

	for _, book := range sorted {
		if err := writeEntry(w, cfg, book, entryType); err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(w io.Writer, cfg *config.Config, book *models.Book, entryType string) error {
	kind := entryType
	if kind == "mixed" {
		if isFullBook(book) {
			kind = "book"
		} else {
			kind = "misc"
		}
	}

	ascii := cfg.Bibtex.ASCIIOutput
	var sb strings.Builder
	fmt.Fprintf(&sb, "@%s{%s,\n", kind, citationKey(cfg.Bibtex.CitationTemplate, book))

	field := func(name, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&sb, "    %s = \"%s\",\n", name, escapeBibtex(value, ascii))
	}

	field("title", book.Title)
	if len(book.Authors) > 0 {
		field("author", strings.Join(book.Authors, " and "))
	}
	field("publisher", book.Publisher)
	if !book.PubDate.IsZero() {
		field("year", fmt.Sprintf("%d", book.PubDate.Year()))
		field("month", strings.ToLower(book.PubDate.Format("Jan")))
	}
	field("isbn", FieldValue(book, "isbn"))
	if len(book.Tags) > 0 {
		field("tags", strings.Join(book.Tags, ", "))
	}
	if book.HasSeries() {
		field("series", book.Series)
		field("volume", book.SeriesIndexString())
	}
	field("abstract", fetch.StripHTML(book.Description))

	// drop the trailing comma of the last field
	entry := strings.TrimSuffix(sb.String(), ",\n")
	if _, err := io.WriteString(w, entry+"\n}\n\n"); err != nil {
		return fmt.Errorf("failed to write entry %d: %w", book.ID, err)
	}
	return nil
}

// isFullBook reports whether the record has the data a @book entry requires
func isFullBook(book *models.Book) bool {
	return book.Title != "" && len(book.Authors) > 0 &&
		book.Publisher != "" && !book.PubDate.IsZero()
}

// citationKey expands the citation template, {authors} and {id} style, and
// sanitizes the result to ASCII word characters
func citationKey(template string, book *models.Book) string {
	if template == "" {
		template = "{authors}{id}"
	}

	key := citationFieldRe.ReplaceAllStringFunc(template, func(m string) string {
		field := strings.Trim(m, "{}")
		return FieldValue(book, field)
	})

	folded, _, err := transform.String(asciiFold, key)
	if err != nil {
		folded = key
	}
	key = nonWordOrASCIIRe.ReplaceAllString(folded, "")
	if key == "" {
		key = fmt.Sprintf("entry%d", book.ID)
	}
	return key
}

// escapeBibtex escapes the BibTeX special characters. ASCII mode also
// transliterates accents and drops what remains outside ASCII.
func escapeBibtex(s string, ascii bool) string {
	if ascii {
		if folded, _, err := transform.String(asciiFold, s); err == nil {
			s = folded
		}
	}

	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '#', '%', '&', '$', '_':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '{', '}', '~', '^', '\\':
			// braces and control runes have no clean in-string escape
			sb.WriteRune(' ')
		case '"':
			sb.WriteString("''")
		default:
			sb.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
