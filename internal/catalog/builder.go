package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/geocine/bookcat/internal/config"
	"github.com/geocine/bookcat/internal/fetch"
	"github.com/geocine/bookcat/internal/models"
)

// ErrAuthorSortMismatch means one author name carries different sort forms
// across books, which would split the author over two places in the catalog
var ErrAuthorSortMismatch = errors.New("inconsistent author sort values")

// Builder holds the sorted views over one record set that the section
// renderers and navigation assemblers share
type Builder struct {
	cfg   *config.Config
	today time.Time

	books    []*models.Book
	byTitle  []*models.Book
	byAuthor []*models.Book
	bySeries []*models.Book
	authors  []*models.Author
	genres   []*models.Genre
	sections []models.SectionType
}

// NewBuilder computes the catalog views. The book set must already be
// normalized (sort keys, genres, read status present).
func NewBuilder(cfg *config.Config, books []*models.Book, today time.Time) (*Builder, error) {
	b := &Builder{cfg: cfg, today: today, books: books}

	b.buildByTitle()
	if err := b.buildByAuthor(); err != nil {
		return nil, err
	}
	b.buildBySeries()
	b.buildGenres()
	if err := b.buildSections(); err != nil {
		return nil, err
	}

	return b, nil
}

// Books returns the full record set
func (b *Builder) Books() []*models.Book { return b.books }

// BooksByTitle returns the title-sorted view
func (b *Builder) BooksByTitle() []*models.Book { return b.byTitle }

// BooksByAuthor returns the author-sorted view, with each author's
// standalone books before their series books
func (b *Builder) BooksByAuthor() []*models.Book { return b.byAuthor }

// BooksBySeries returns the series books sorted by series then index
func (b *Builder) BooksBySeries() []*models.Book { return b.bySeries }

// Authors returns the unique authors in sort order with book counts
func (b *Builder) Authors() []*models.Author { return b.authors }

// Genres returns the genre groupings in alphabetical order
func (b *Builder) Genres() []*models.Genre { return b.genres }

// Sections returns the sections this catalog will contain, in fixed
// presentation order, with sections that would come up empty dropped
func (b *Builder) Sections() []models.SectionType { return b.sections }

// HasSection reports whether the catalog contains the section
func (b *Builder) HasSection(s models.SectionType) bool {
	for _, have := range b.sections {
		if have == s {
			return true
		}
	}
	return false
}

// RecentlyAdded returns the date-added buckets
func (b *Builder) RecentlyAdded() []models.DateBucket {
	return GroupByDateAdded(b.books, b.today)
}

// RecentlyRead returns the date-read buckets
func (b *Builder) RecentlyRead() []models.DateBucket {
	return GroupByDateRead(b.books, b.today)
}

func (b *Builder) buildByTitle() {
	b.byTitle = append([]*models.Book{}, b.books...)
	sort.SliceStable(b.byTitle, func(i, j int) bool {
		return strings.ToLower(b.byTitle[i].TitleSort) < strings.ToLower(b.byTitle[j].TitleSort)
	})
}

func (b *Builder) buildByAuthor() error {
	b.byAuthor = append([]*models.Book{}, b.books...)
	sort.SliceStable(b.byAuthor, func(i, j int) bool {
		bi, bj := b.byAuthor[i], b.byAuthor[j]
		si, sj := strings.ToLower(bi.AuthorSort), strings.ToLower(bj.AuthorSort)
		if si != sj {
			return si < sj
		}
		return fetch.AuthorSortKey(bi.Series, bi.SeriesIndex, bi.TitleSort) <
			fetch.AuthorSortKey(bj.Series, bj.SeriesIndex, bj.TitleSort)
	})

	// Unique authors, and the consistency check: the same display name must
	// always carry the same sort form or the catalog would split the author
	sortsByName := make(map[string]string)
	var offenders []string

	for _, book := range b.byAuthor {
		name := book.Author()
		if have, ok := sortsByName[name]; ok {
			if have != book.AuthorSort {
				offenders = append(offenders,
					fmt.Sprintf("%s (%q vs %q)", name, have, book.AuthorSort))
			}
			continue
		}
		sortsByName[name] = book.AuthorSort
	}
	if len(offenders) > 0 {
		return fmt.Errorf("%w: %s", ErrAuthorSortMismatch, strings.Join(offenders, "; "))
	}

	counts := make(map[string]int)
	for _, book := range b.byAuthor {
		counts[book.Author()]++
	}
	seen := make(map[string]bool)
	for _, book := range b.byAuthor {
		name := book.Author()
		if seen[name] {
			continue
		}
		seen[name] = true
		b.authors = append(b.authors, &models.Author{
			Name:      name,
			Sort:      book.AuthorSort,
			BookCount: counts[name],
		})
	}
	return nil
}

func (b *Builder) buildBySeries() {
	for _, book := range b.books {
		if book.HasSeries() {
			b.bySeries = append(b.bySeries, book)
		}
	}
	sort.SliceStable(b.bySeries, func(i, j int) bool {
		bi, bj := b.bySeries[i], b.bySeries[j]
		si, sj := strings.ToLower(bi.Series), strings.ToLower(bj.Series)
		if si != sj {
			return si < sj
		}
		return bi.SeriesIndex < bj.SeriesIndex
	})
}

func (b *Builder) buildGenres() {
	byKey := make(map[string]*models.Genre)
	for _, book := range b.books {
		for _, tag := range book.Genres {
			key := NormalizeGenreKey(tag)
			if key == "" {
				continue
			}
			genre, ok := byKey[key]
			if !ok {
				genre = &models.Genre{Tag: tag, Key: key}
				byKey[key] = genre
			}
			genre.Books = append(genre.Books, book)
		}
	}

	for _, genre := range byKey {
		sort.SliceStable(genre.Books, func(i, j int) bool {
			bi, bj := genre.Books[i], genre.Books[j]
			si, sj := strings.ToLower(bi.AuthorSort), strings.ToLower(bj.AuthorSort)
			if si != sj {
				return si < sj
			}
			return strings.ToLower(bi.TitleSort) < strings.ToLower(bj.TitleSort)
		})
		b.genres = append(b.genres, genre)
	}
	sort.SliceStable(b.genres, func(i, j int) bool {
		return strings.ToLower(b.genres[i].Tag) < strings.ToLower(b.genres[j].Tag)
	})
}

// buildSections validates the configured section names and drops the ones
// that would render empty
func (b *Builder) buildSections() error {
	requested := make(map[models.SectionType]bool)
	for _, name := range b.cfg.Epub.Sections {
		s, err := models.ParseSectionType(name)
		if err != nil {
			return err
		}
		requested[s] = true
	}

	order := []models.SectionType{
		models.SectionAuthors,
		models.SectionTitles,
		models.SectionSeries,
		models.SectionGenres,
		models.SectionRecentlyAdded,
		models.SectionRecentlyRead,
		models.SectionDescriptions,
	}
	for _, s := range order {
		if !requested[s] {
			continue
		}
		if b.sectionEmpty(s) {
			log.Debugf("dropping empty section %s", s)
			continue
		}
		b.sections = append(b.sections, s)
	}
	return nil
}

func (b *Builder) sectionEmpty(s models.SectionType) bool {
	switch s {
	case models.SectionSeries:
		return len(b.bySeries) == 0
	case models.SectionGenres:
		return len(b.genres) == 0
	case models.SectionRecentlyAdded:
		return len(b.RecentlyAdded()) == 0
	case models.SectionRecentlyRead:
		return len(b.RecentlyRead()) == 0
	}
	return len(b.books) == 0
}
