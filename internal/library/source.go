package library

import (
	"strings"

	"github.com/geocine/bookcat/internal/models"
	"github.com/geocine/bookcat/internal/parser"
)

// Source supplies the book records for one catalog run
type Source interface {
	// Books returns the records matching the search, in no particular order
	Books(search *parser.Search) ([]*models.Book, error)
	Close() error
}

// MemorySource serves a fixed record set, mainly for tests
type MemorySource struct {
	Records []*models.Book
}

// NewMemorySource creates a source over the given records
func NewMemorySource(records []*models.Book) *MemorySource {
	return &MemorySource{Records: records}
}

// Books returns the records matching the search
func (m *MemorySource) Books(search *parser.Search) ([]*models.Book, error) {
	if search == nil || search.Empty() {
		return append([]*models.Book{}, m.Records...), nil
	}

	var out []*models.Book
	for _, book := range m.Records {
		if MatchesSearch(book, search) {
			out = append(out, book)
		}
	}
	return out, nil
}

// Close is a no-op for the in-memory source
func (m *MemorySource) Close() error {
	return nil
}

// MatchesSearch reports whether the book satisfies every term of the search
func MatchesSearch(book *models.Book, search *parser.Search) bool {
	for _, term := range search.Terms {
		if matchTerm(book, term) == term.Negated {
			return false
		}
	}
	return true
}

func matchTerm(book *models.Book, term *parser.SearchTerm) bool {
	switch term.Field {
	case "tags":
		return matchAny(book.Tags, term)
	case "authors":
		return matchAny(book.Authors, term)
	case "formats":
		return matchAny(book.Formats, term)
	case "title":
		return matchValue(book.Title, term)
	case "series":
		return matchValue(book.Series, term)
	case "publisher":
		return matchValue(book.Publisher, term)
	case "":
		// Free text matches title or any author
		return matchValue(book.Title, term) || matchAny(book.Authors, term)
	}
	return false
}

func matchAny(values []string, term *parser.SearchTerm) bool {
	for _, v := range values {
		if matchValue(v, term) {
			return true
		}
	}
	return false
}

func matchValue(value string, term *parser.SearchTerm) bool {
	if term.Exact {
		return strings.EqualFold(value, term.Value)
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(term.Value))
}
