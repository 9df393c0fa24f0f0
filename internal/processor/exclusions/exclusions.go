package exclusions

import (
	log "github.com/sirupsen/logrus"

	"github.com/geocine/bookcat/internal/models"
	"github.com/geocine/bookcat/internal/rules"
)

// ExclusionsProcessor drops books matched by the configured exclusion rules
type ExclusionsProcessor struct {
	rules *rules.Ruleset
}

// NewExclusionsProcessor creates a new exclusions processor
func NewExclusionsProcessor(rs *rules.Ruleset) *ExclusionsProcessor {
	return &ExclusionsProcessor{rules: rs}
}

// Name returns the processor name
func (e *ExclusionsProcessor) Name() string {
	return "exclusions"
}

// Process filters out excluded books
func (e *ExclusionsProcessor) Process(books []*models.Book) ([]*models.Book, error) {
	if e.rules == nil || len(e.rules.Exclusions) == 0 {
		return books, nil
	}

	kept := books[:0]
	for _, book := range books {
		if excluded, rule := e.rules.Excluded(book); excluded {
			log.Debugf("excluding %q (rule %q)", book.Title, rule)
			continue
		}
		kept = append(kept, book)
	}
	return kept, nil
}
