package parser

import (
	"fmt"
	"strings"
)

// SearchTerm represents one term of a search expression
type SearchTerm struct {
	Field   string // empty for free-text terms
	Value   string
	Exact   bool // value started with '='
	Negated bool // term started with '!'
}

// Search represents a parsed search expression. Terms are ANDed together.
type Search struct {
	Terms []*SearchTerm
}

// Fields accepted in field:value terms
var searchFields = map[string]string{
	"tag":       "tags",
	"tags":      "tags",
	"title":     "title",
	"author":    "authors",
	"authors":   "authors",
	"series":    "series",
	"publisher": "publisher",
	"format":    "formats",
	"formats":   "formats",
}

// ParseSearch parses a search expression into terms.
//
// Terms are separated by whitespace and ANDed. A term is either free text
// (matched against title and authors) or field:value. Values may be quoted
// to include spaces, and a leading '=' inside the value requests an exact
// match instead of a substring match. A leading '!' negates the term:
//
//	tag:"=Science Fiction" !author:Asimov robots
func ParseSearch(expr string) (*Search, error) {
	search := &Search{Terms: make([]*SearchTerm, 0)}

	for _, token := range tokenize(expr) {
		term := &SearchTerm{}

		if strings.HasPrefix(token, "!") {
			term.Negated = true
			token = token[1:]
		}

		if field, value, ok := cutField(token); ok {
			canonical, known := searchFields[strings.ToLower(field)]
			if !known {
				return nil, fmt.Errorf("unknown search field %q", field)
			}
			term.Field = canonical
			token = value
		}

		token = strings.Trim(token, `"`)
		if strings.HasPrefix(token, "=") {
			term.Exact = true
			token = token[1:]
		}

		if token == "" {
			continue
		}
		term.Value = token
		search.Terms = append(search.Terms, term)
	}

	return search, nil
}

// Empty reports whether the search selects every book
func (s *Search) Empty() bool {
	return len(s.Terms) == 0
}

// tokenize splits on whitespace, keeping quoted spans intact
func tokenize(expr string) []string {
	var tokens []string
	var current strings.Builder
	inQuote := false

	for _, r := range expr {
		switch {
		case r == '"':
			inQuote = !inQuote
			current.WriteRune(r)
		case !inQuote && (r == ' ' || r == '\t' || r == '\n'):
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// cutField splits field:value, refusing to treat a quoted colon as a field
// separator
func cutField(token string) (field, value string, ok bool) {
	idx := strings.Index(token, ":")
	if idx <= 0 {
		return "", "", false
	}
	if strings.HasPrefix(token, `"`) {
		return "", "", false
	}
	return token[:idx], token[idx+1:], true
}
