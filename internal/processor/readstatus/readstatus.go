package readstatus

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/geocine/bookcat/internal/models"
	"github.com/geocine/bookcat/internal/rules"
)

// ReadStatusProcessor marks books read/wishlist from a "field:pattern"
// marker and assigns the listing prefix glyph from the prefix rules.
//
// The marker's field names where to look ("tag" is the only field stored in
// the standard schema) and the pattern is matched against each value, so
// "tag:+" means any book tagged "+" has been read.
type ReadStatusProcessor struct {
	markerField   string
	markerPattern *regexp.Regexp
	wishlistTag   string
	rules         *rules.Ruleset
}

// NewReadStatusProcessor creates a read status processor from the marker spec
func NewReadStatusProcessor(marker, wishlistTag string, rs *rules.Ruleset) (*ReadStatusProcessor, error) {
	p := &ReadStatusProcessor{wishlistTag: wishlistTag, rules: rs}

	if marker != "" {
		field, pattern, ok := strings.Cut(marker, ":")
		if !ok {
			return nil, fmt.Errorf("read-book-marker %q is not field:pattern", marker)
		}
		re, err := regexp.Compile("^" + regexp.QuoteMeta(pattern) + "$")
		if err != nil {
			return nil, fmt.Errorf("read-book-marker pattern: %w", err)
		}
		p.markerField = field
		p.markerPattern = re
	}

	return p, nil
}

// Name returns the processor name
func (r *ReadStatusProcessor) Name() string {
	return "readstatus"
}

// Process sets ReadStatus, Wishlist and Prefix on every book
func (r *ReadStatusProcessor) Process(books []*models.Book) ([]*models.Book, error) {
	for _, book := range books {
		book.ReadStatus = r.isRead(book)

		if r.wishlistTag != "" {
			for _, tag := range book.Tags {
				if tag == r.wishlistTag {
					book.Wishlist = true
					break
				}
			}
		}

		if r.rules != nil {
			book.Prefix = r.rules.PrefixFor(book)
		}
	}
	return books, nil
}

func (r *ReadStatusProcessor) isRead(book *models.Book) bool {
	if r.markerPattern == nil {
		return false
	}
	switch r.markerField {
	case "tag", "tags":
		for _, tag := range book.Tags {
			if r.markerPattern.MatchString(tag) {
				return true
			}
		}
	case "column", "date":
		// The fetch stage loads the named column into LastRead
		return !book.LastRead.IsZero()
	}
	return false
}
