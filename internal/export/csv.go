package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/geocine/bookcat/internal/config"
	"github.com/geocine/bookcat/internal/models"
)

// utf8BOM marks the output so spreadsheet tools pick the right encoding
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the records as CSV with a header row from the configured
// field list
func WriteCSV(w io.Writer, cfg *config.Config, books []*models.Book) error {
	fields, err := ResolveFields(cfg.Catalog.Fields)
	if err != nil {
		return err
	}
	sorted, err := SortBooks(books, cfg.Catalog.SortBy)
	if err != nil {
		return err
	}

	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(fields); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(fields))
	for _, book := range sorted {
		for i, field := range fields {
			row[i] = FieldValue(book, field)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", book.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
