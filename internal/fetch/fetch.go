package fetch

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/geocine/bookcat/internal/config"
	"github.com/geocine/bookcat/internal/library"
	"github.com/geocine/bookcat/internal/models"
	"github.com/geocine/bookcat/internal/parser"
	"github.com/geocine/bookcat/internal/processor"
	"github.com/geocine/bookcat/internal/processor/exclusions"
	"github.com/geocine/bookcat/internal/processor/readstatus"
	"github.com/geocine/bookcat/internal/processor/runner"
	"github.com/geocine/bookcat/internal/rules"
)

// ErrNoBooks means the search selected nothing to catalog
var ErrNoBooks = errors.New("no books found")

// DateColumnLoader is implemented by sources that can fill LastRead from a
// named column
type DateColumnLoader interface {
	LoadDateColumn(label string, books []*models.Book) error
}

// TextColumnLoader is implemented by sources exposing custom text columns
type TextColumnLoader interface {
	TextColumn(label string) (map[int64]string, error)
}

// Fetcher turns raw library records into normalized catalog records
type Fetcher struct {
	source           library.Source
	cfg              *config.Config
	rules            *rules.Ruleset
	exclude          *regexp.Regexp
	merge            *MergeSpec
	disableExternals bool
}

// SetDisableExternals skips external processors for this run
func (f *Fetcher) SetDisableExternals(disable bool) {
	f.disableExternals = disable
}

// NewFetcher creates a fetcher for one catalog run
func NewFetcher(source library.Source, cfg *config.Config, rs *rules.Ruleset) (*Fetcher, error) {
	f := &Fetcher{source: source, cfg: cfg, rules: rs}

	if cfg.Epub.ExcludeGenre != "" {
		re, err := regexp.Compile(cfg.Epub.ExcludeGenre)
		if err != nil {
			return nil, fmt.Errorf("exclude-genre pattern: %w", err)
		}
		f.exclude = re
	}

	merge, err := ParseMergeSpec(cfg.Epub.MergeComments)
	if err != nil {
		return nil, err
	}
	f.merge = merge

	return f, nil
}

// Fetch queries, normalizes and processes the record set for the given
// output format
func (f *Fetcher) Fetch(format string) ([]*models.Book, error) {
	search, err := parser.ParseSearch(f.cfg.Catalog.Search)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search: %w", err)
	}

	books, err := f.source.Books(search)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch books: %w", err)
	}
	log.Debugf("fetched %d books", len(books))

	if err := f.loadReadDates(books); err != nil {
		return nil, err
	}

	extra, err := f.mergeColumn()
	if err != nil {
		return nil, err
	}

	for _, book := range books {
		if err := f.normalize(book, extra); err != nil {
			return nil, fmt.Errorf("failed to normalize %q: %w", book.Title, err)
		}
	}

	books, err = f.runProcessors(books, format)
	if err != nil {
		return nil, err
	}

	if len(books) == 0 {
		if f.cfg.Catalog.Search != "" {
			return nil, fmt.Errorf("%w matching %q", ErrNoBooks, f.cfg.Catalog.Search)
		}
		return nil, ErrNoBooks
	}

	return books, nil
}

func (f *Fetcher) normalize(book *models.Book, extra map[int64]string) error {
	if len(book.Authors) == 0 {
		book.Authors = []string{"Unknown"}
	}
	if book.TitleSort == "" {
		book.TitleSort = GenerateSortTitle(book.Title)
	}
	if book.AuthorSort == "" {
		book.AuthorSort = AuthorToAuthorSort(book.Authors[0])
	}

	comments, err := NormalizeComments(book.Description)
	if err != nil {
		return err
	}
	book.Description = MergeComments(comments, extra[book.ID], f.merge)
	book.ShortDescription = ShortDescription(book.Description, f.cfg.Epub.DescriptionClip)

	book.Genres = f.filterGenres(book.Tags)
	return nil
}

// filterGenres picks the tags usable as genre sections: excluded tags, the
// wishlist tag and anything matching the exclude-genre pattern drop out
func (f *Fetcher) filterGenres(tags []string) []string {
	var genres []string
	for _, tag := range tags {
		if tag == f.cfg.Epub.WishlistTag {
			continue
		}
		if f.excludedTag(tag) {
			continue
		}
		if f.exclude != nil && f.exclude.MatchString(tag) {
			continue
		}
		genres = append(genres, tag)
	}
	return genres
}

func (f *Fetcher) excludedTag(tag string) bool {
	for _, t := range f.cfg.Epub.ExcludeTags {
		if tag == t {
			return true
		}
	}
	return false
}

// loadReadDates fills LastRead when the source supports date columns. The
// column label comes from a column: read marker, falling back to date_read.
func (f *Fetcher) loadReadDates(books []*models.Book) error {
	loader, ok := f.source.(DateColumnLoader)
	if !ok {
		return nil
	}

	label := "date_read"
	if field, value, ok := strings.Cut(f.cfg.Epub.ReadBookMarker, ":"); ok && field == "column" {
		label = value
	}
	return loader.LoadDateColumn(label, books)
}

func (f *Fetcher) mergeColumn() (map[int64]string, error) {
	if f.merge == nil {
		return nil, nil
	}
	loader, ok := f.source.(TextColumnLoader)
	if !ok {
		return nil, nil
	}
	return loader.TextColumn(f.merge.Column)
}

func (f *Fetcher) runProcessors(books []*models.Book, format string) ([]*models.Book, error) {
	read, err := readstatus.NewReadStatusProcessor(
		f.cfg.Epub.ReadBookMarker, f.cfg.Epub.WishlistTag, f.rules)
	if err != nil {
		return nil, err
	}

	builtins := []processor.Processor{
		exclusions.NewExclusionsProcessor(f.rules),
		read,
	}

	r := runner.NewRunner(f.cfg, format, builtins)
	r.SetDisableExternals(f.disableExternals)
	return r.Run(books)
}
