package export

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/geocine/bookcat/internal/config"
	"github.com/geocine/bookcat/internal/fetch"
	"github.com/geocine/bookcat/internal/models"
)

type xmlTitle struct {
	Sort  string `xml:"sort,attr,omitempty"`
	Value string `xml:",chardata"`
}

type xmlAuthors struct {
	Sort    string   `xml:"sort,attr,omitempty"`
	Authors []string `xml:"author"`
}

type xmlSeries struct {
	Index string `xml:"index,attr"`
	Value string `xml:",chardata"`
}

type xmlTags struct {
	Tags []string `xml:"tag"`
}

type xmlFormats struct {
	Formats []string `xml:"format"`
}

type xmlRecord struct {
	XMLName   xml.Name    `xml:"record"`
	ID        *int64      `xml:"id,omitempty"`
	UUID      string      `xml:"uuid,omitempty"`
	Title     *xmlTitle   `xml:"title,omitempty"`
	Authors   *xmlAuthors `xml:"authors,omitempty"`
	Publisher string      `xml:"publisher,omitempty"`
	Rating    *int        `xml:"rating,omitempty"`
	ISBN      string      `xml:"isbn,omitempty"`
	Tags      *xmlTags    `xml:"tags,omitempty"`
	Series    *xmlSeries  `xml:"series,omitempty"`
	Cover     string      `xml:"cover,omitempty"`
	Formats   *xmlFormats `xml:"formats,omitempty"`
	Timestamp string      `xml:"timestamp,omitempty"`
	PubDate   string      `xml:"pubdate,omitempty"`
	Comments  string      `xml:"comments,omitempty"`
}

type xmlCatalog struct {
	XMLName xml.Name    `xml:"calibredb"`
	Records []xmlRecord `xml:"record"`
}

// WriteXML writes the records under a calibredb root element, honoring the
// configured field list
func WriteXML(w io.Writer, cfg *config.Config, books []*models.Book) error {
	fields, err := ResolveFields(cfg.Catalog.Fields)
	if err != nil {
		return err
	}
	sorted, err := SortBooks(books, cfg.Catalog.SortBy)
	if err != nil {
		return err
	}

	want := make(map[string]bool, len(fields))
	for _, f := range fields {
		want[f] = true
	}

	catalog := xmlCatalog{}
	for _, book := range sorted {
		catalog.Records = append(catalog.Records, buildRecord(book, want))
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(catalog); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	_, err = io.WriteString(w, "\n")
	return err
}

func buildRecord(book *models.Book, want map[string]bool) xmlRecord {
	rec := xmlRecord{}

	if want["id"] {
		id := book.ID
		rec.ID = &id
	}
	if want["uuid"] {
		rec.UUID = book.UUID
	}
	if want["title"] {
		title := &xmlTitle{Value: book.Title}
		if want["title_sort"] {
			title.Sort = book.TitleSort
		}
		rec.Title = title
	}
	if want["authors"] && len(book.Authors) > 0 {
		authors := &xmlAuthors{Authors: book.Authors}
		if want["author_sort"] {
			authors.Sort = book.AuthorSort
		}
		rec.Authors = authors
	}
	if want["publisher"] {
		rec.Publisher = book.Publisher
	}
	if want["rating"] && book.Rating > 0 {
		rating := book.Rating
		rec.Rating = &rating
	}
	if want["isbn"] {
		rec.ISBN = FieldValue(book, "isbn")
	}
	if want["tags"] && len(book.Tags) > 0 {
		rec.Tags = &xmlTags{Tags: book.Tags}
	}
	if want["series"] && book.HasSeries() {
		rec.Series = &xmlSeries{Index: book.SeriesIndexString(), Value: book.Series}
	}
	if want["cover"] {
		rec.Cover = book.CoverPath
	}
	if want["formats"] && len(book.Formats) > 0 {
		rec.Formats = &xmlFormats{Formats: book.Formats}
	}
	if want["timestamp"] {
		rec.Timestamp = isoDate(book.Timestamp)
	}
	if want["pubdate"] {
		rec.PubDate = isoDate(book.PubDate)
	}
	if want["comments"] {
		rec.Comments = fetch.StripHTML(book.Description)
	}

	return rec
}
