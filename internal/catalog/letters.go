package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/geocine/bookcat/internal/models"
)

// SymbolsBucket is the letter bucket holding everything that does not start
// with a letter. Sort keys for such titles carry a "/" prefix, which sorts
// below the letters, so the bucket lands ahead of A.
const SymbolsBucket = "Symbols"

var foldDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

var nonWordRe = regexp.MustCompile(`\W`)

// LetterOrSymbol returns the letter bucket for a sort key: the upper-cased
// first letter with diacritics folded, or SymbolsBucket.
func LetterOrSymbol(key string) string {
	folded, _, err := transform.String(foldDiacritics, key)
	if err != nil {
		folded = key
	}

	for _, r := range folded {
		if unicode.IsLetter(r) {
			return strings.ToUpper(string(r))
		}
		break
	}
	return SymbolsBucket
}

// NormalizeGenreKey turns a tag into its anchor key: lower case with every
// non-word rune removed, so "Science Fiction" and "science-fiction" land in
// the same section.
func NormalizeGenreKey(tag string) string {
	return nonWordRe.ReplaceAllString(strings.ToLower(tag), "")
}

// GroupByLetter buckets the already sorted books by the letter of their key
func GroupByLetter(books []*models.Book, key func(*models.Book) string) []models.LetterBucket {
	var buckets []models.LetterBucket
	for _, book := range books {
		letter := LetterOrSymbol(key(book))
		if len(buckets) == 0 || buckets[len(buckets)-1].Letter != letter {
			buckets = append(buckets, models.LetterBucket{Letter: letter})
		}
		last := &buckets[len(buckets)-1]
		last.Books = append(last.Books, book)
	}
	return buckets
}
