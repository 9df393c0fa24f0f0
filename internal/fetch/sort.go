package fetch

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Articles and stop words ignored at the front of a title when building its
// sort key
var titleStopWords = map[string]bool{
	"the": true,
	"a":   true,
	"an":  true,
}

// GenerateSortTitle builds a sort key for a title:
//   - a leading article moves out of the way ("The Stars" sorts under S)
//   - a leading integer is zero-padded to ten digits so "2" sorts before "10"
//   - a title starting with a non-alphanumeric gets a "/" prefix, collecting
//     the symbol-titled books into one group ahead of the letters
func GenerateSortTitle(title string) string {
	words := strings.Fields(title)
	if len(words) == 0 {
		return title
	}

	var out []string
	for i, word := range words {
		if i == 0 {
			if len(words) > 1 && titleStopWords[strings.ToLower(word)] {
				continue
			}
			if n, err := strconv.Atoi(strings.TrimSuffix(word, ".")); err == nil {
				out = append(out, fmt.Sprintf("%010d", n))
				continue
			}
			r := firstRune(word)
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				out = append(out, "/"+word)
				continue
			}
		}
		out = append(out, word)
	}

	return strings.Join(out, " ")
}

// AuthorToAuthorSort converts "Frank Herbert" to "Herbert, Frank".
// Single-word names pass through unchanged.
func AuthorToAuthorSort(author string) string {
	tokens := strings.Fields(author)
	if len(tokens) < 2 {
		return author
	}

	last := tokens[len(tokens)-1]
	rest := strings.Join(tokens[:len(tokens)-1], " ")
	return capitalize(last) + ", " + rest
}

// AuthorSortKey orders one author's books: books without a series come
// first in title order, then series books grouped by series in index order.
// The "~" separator sorts after every letter, pushing series groups to the
// end, and the zero-padded index keeps 2 before 10.
func AuthorSortKey(series string, seriesIndex float64, titleSort string) string {
	if series == "" {
		return strings.ToLower(titleSort)
	}
	return fmt.Sprintf("~%s~%04d", strings.ToLower(series), int(seriesIndex*100))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
