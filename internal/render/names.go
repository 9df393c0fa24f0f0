package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/geocine/bookcat/internal/models"
)

// Content document names, shared with the OPF/NCX assemblers
const (
	DocByAuthor    = "ByAlphaAuthor.html"
	DocByTitle     = "ByAlphaTitle.html"
	DocBySeries    = "BySeries.html"
	DocByDateAdded = "ByDateAdded.html"
	DocByDateRead  = "ByDateRead.html"
)

var anchorRe = regexp.MustCompile(`\W`)

// AuthorAnchor returns the in-document anchor for an author name
func AuthorAnchor(name string) string {
	return anchorRe.ReplaceAllString(name, "")
}

// SeriesAnchor returns the in-document anchor for a series
func SeriesAnchor(series string) string {
	return anchorRe.ReplaceAllString(series, "") + "_series"
}

// GenreDoc returns the content document name for a normalized genre key
func GenreDoc(key string) string {
	return "Genre_" + key + ".html"
}

// GenreAnchor returns the section anchor inside a genre document
func GenreAnchor(key string) string {
	return "Genre_" + key
}

// BookDoc returns the description document name for a book
func BookDoc(id int64) string {
	return fmt.Sprintf("book_%d.html", id)
}

// BookAnchor returns the anchor inside a description document
func BookAnchor(id int64) string {
	return fmt.Sprintf("book%d", id)
}

// LetterAnchor returns the anchor of a letter bucket, suffixed so the same
// letter can appear in several documents of the catalog
func LetterAnchor(letter, suffix string) string {
	return anchorRe.ReplaceAllString(letter, "") + suffix
}

// ThumbFile returns the image file name of a book's cover thumbnail
func ThumbFile(book *models.Book) string {
	if book.UUID != "" {
		return "thumbnail_" + anchorRe.ReplaceAllString(book.UUID, "") + ".jpg"
	}
	return fmt.Sprintf("thumbnail_%d.jpg", book.ID)
}

// RatingStars renders a 0-10 rating as stars out of five. The Kindle
// profile gets plain asterisks, everything else the star glyphs.
func RatingStars(rating int, kindle bool) string {
	stars := rating / 2
	if stars <= 0 {
		return ""
	}
	if stars > 5 {
		stars = 5
	}
	if kindle {
		return strings.Repeat("*", stars)
	}
	return strings.Repeat("★", stars) + strings.Repeat("☆", 5-stars)
}

// htmlEscape escapes the XML special characters for text content
func htmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
