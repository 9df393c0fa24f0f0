// Package export writes the flat catalog formats: CSV, XML and BibTeX.
package export

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/geocine/bookcat/internal/fetch"
	"github.com/geocine/bookcat/internal/models"
)

// allFields is the full field list, in output order, that "all" expands to
var allFields = []string{
	"id", "uuid", "title", "title_sort", "authors", "author_sort",
	"publisher", "rating", "series", "series_index", "tags", "formats",
	"isbn", "pubdate", "timestamp", "comments", "languages", "cover",
}

var digitsRe = regexp.MustCompile(`\D`)

// ResolveFields expands the configured field list, validating each name
func ResolveFields(fields []string) ([]string, error) {
	if len(fields) == 0 {
		return allFields, nil
	}
	for _, f := range fields {
		if f == "all" {
			return allFields, nil
		}
	}

	known := make(map[string]bool, len(allFields))
	for _, f := range allFields {
		known[f] = true
	}

	var out []string
	for _, f := range fields {
		f = strings.TrimSpace(strings.ToLower(f))
		if !known[f] {
			return nil, fmt.Errorf("unknown field %q", f)
		}
		out = append(out, f)
	}
	return out, nil
}

// SortBooks orders the records by the sort-by field, id order by default
func SortBooks(books []*models.Book, sortBy string) ([]*models.Book, error) {
	sorted := append([]*models.Book{}, books...)

	if sortBy == "" {
		sortBy = "id"
	}
	if sortBy == "id" {
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
		return sorted, nil
	}

	if _, err := ResolveFields([]string{sortBy}); err != nil {
		return nil, fmt.Errorf("invalid sort-by: %w", err)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(FieldValue(sorted[i], sortBy)) <
			strings.ToLower(FieldValue(sorted[j], sortBy))
	})
	return sorted, nil
}

// FieldValue renders one field of a record as flat text
func FieldValue(book *models.Book, field string) string {
	switch field {
	case "id":
		return strconv.FormatInt(book.ID, 10)
	case "uuid":
		return book.UUID
	case "title":
		return book.Title
	case "title_sort":
		return book.TitleSort
	case "authors":
		return book.Author()
	case "author_sort":
		return book.AuthorSort
	case "publisher":
		return book.Publisher
	case "rating":
		if book.Rating == 0 {
			return ""
		}
		return strconv.Itoa(book.Rating)
	case "series":
		return book.Series
	case "series_index":
		if !book.HasSeries() {
			return ""
		}
		return book.SeriesIndexString()
	case "tags":
		return strings.Join(book.Tags, ", ")
	case "formats":
		return strings.Join(book.Formats, ", ")
	case "isbn":
		return digitsRe.ReplaceAllString(book.ISBN, "")
	case "pubdate":
		return isoDate(book.PubDate)
	case "timestamp":
		return isoDate(book.Timestamp)
	case "comments":
		return fetch.StripHTML(book.Description)
	case "languages":
		return strings.Join(book.Languages, ", ")
	case "cover":
		return book.CoverPath
	}
	return ""
}

func isoDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05+00:00")
}
