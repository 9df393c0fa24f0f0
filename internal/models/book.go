package models

import (
	"fmt"
	"strings"
	"time"
)

// Book represents a single normalized catalog record. All fields are flat;
// the fetch stage is responsible for filling in derived values (sort keys,
// genres, short description) before the record reaches the section builders.
type Book struct {
	ID          int64
	UUID        string
	Title       string
	TitleSort   string
	Authors     []string
	AuthorSort  string
	Series      string
	SeriesIndex float64
	Publisher   string
	PubDate     time.Time
	Timestamp   time.Time // date added to the library
	LastRead    time.Time // zero when the book has never been read
	Rating      int       // 0-10, displayed halved as stars out of 5
	Tags        []string
	Genres      []string // Tags after exclusion/genre filtering
	Formats     []string
	ISBN        string
	Languages   []string
	Description string // HTML comments, post merge/markdown conversion
	CoverPath   string

	ReadStatus       bool
	Wishlist         bool
	Prefix           string // glyph shown before the title in listings
	ShortDescription string
}

// Author returns the book's display author string (authors joined with '&').
func (b *Book) Author() string {
	return strings.Join(b.Authors, " & ")
}

// HasSeries reports whether the book belongs to a series.
func (b *Book) HasSeries() bool {
	return b.Series != ""
}

// SeriesIndexString renders the series index without a trailing ".0"
// (3.0 -> "3", 3.5 -> "3.5").
func (b *Book) SeriesIndexString() string {
	s := fmt.Sprintf("%.4g", b.SeriesIndex)
	return strings.TrimSuffix(s, ".0")
}

// Author pairs a display name with its sort form for unique-author lists.
type Author struct {
	Name      string
	Sort      string
	BookCount int
}

// SectionType identifies a generated catalog section.
type SectionType int

const (
	SectionAuthors SectionType = iota
	SectionTitles
	SectionSeries
	SectionGenres
	SectionRecentlyAdded
	SectionRecentlyRead
	SectionDescriptions
)

// String returns the configuration name of the section.
func (s SectionType) String() string {
	switch s {
	case SectionAuthors:
		return "authors"
	case SectionTitles:
		return "titles"
	case SectionSeries:
		return "series"
	case SectionGenres:
		return "genres"
	case SectionRecentlyAdded:
		return "recently_added"
	case SectionRecentlyRead:
		return "recently_read"
	case SectionDescriptions:
		return "descriptions"
	}
	return "unknown"
}

// ParseSectionType maps a configuration name to its SectionType.
func ParseSectionType(name string) (SectionType, error) {
	for _, s := range []SectionType{
		SectionAuthors, SectionTitles, SectionSeries, SectionGenres,
		SectionRecentlyAdded, SectionRecentlyRead, SectionDescriptions,
	} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown catalog section %q", name)
}

// Genre groups the books carrying one normalized genre tag.
type Genre struct {
	Tag   string // display form of the tag
	Key   string // normalized anchor key (lowercase, word chars only)
	Books []*Book
}

// DateBucket is one date-range grouping in the recently-added and
// recently-read sections.
type DateBucket struct {
	Label  string // e.g. "Last 30 days" or "January 2026"
	Anchor string
	Books  []*Book
}

// LetterBucket is one letter grouping in the author/title/series sections.
type LetterBucket struct {
	Letter string // single upper-cased letter or "Symbols"
	Books  []*Book
}
