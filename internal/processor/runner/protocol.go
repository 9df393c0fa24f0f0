package runner

import (
	"encoding/json"
	"time"

	"github.com/geocine/bookcat/internal/config"
	"github.com/geocine/bookcat/internal/models"
)

// ProcessorContext is the JSON structure sent to and received from
// external record processors over stdin/stdout
type ProcessorContext struct {
	Books   []JsonRecord           `json:"books"`
	Config  map[string]interface{} `json:"config"`
	Format  string                 `json:"format"`
	Version string                 `json:"version"`
}

// JsonRecord represents one book record in the processor protocol.
// Dates travel as RFC 3339 strings; zero dates are omitted.
type JsonRecord struct {
	ID          int64    `json:"id"`
	UUID        string   `json:"uuid,omitempty"`
	Title       string   `json:"title"`
	TitleSort   string   `json:"title_sort,omitempty"`
	Authors     []string `json:"authors"`
	AuthorSort  string   `json:"author_sort,omitempty"`
	Series      string   `json:"series,omitempty"`
	SeriesIndex float64  `json:"series_index,omitempty"`
	Publisher   string   `json:"publisher,omitempty"`
	PubDate     string   `json:"pubdate,omitempty"`
	Timestamp   string   `json:"timestamp,omitempty"`
	LastRead    string   `json:"last_read,omitempty"`
	Rating      int      `json:"rating,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Formats     []string `json:"formats,omitempty"`
	ISBN        string   `json:"isbn,omitempty"`
	Languages   []string `json:"languages,omitempty"`
	Description string   `json:"description,omitempty"`

	ShortDescription string `json:"short_description,omitempty"`

	CoverPath  string `json:"cover,omitempty"`
	ReadStatus bool   `json:"read,omitempty"`
	Wishlist   bool   `json:"wishlist,omitempty"`
	Prefix     string `json:"prefix,omitempty"`
}

// BooksToJson converts catalog records to the protocol representation
func BooksToJson(books []*models.Book) []JsonRecord {
	out := make([]JsonRecord, 0, len(books))
	for _, b := range books {
		out = append(out, JsonRecord{
			ID:          b.ID,
			UUID:        b.UUID,
			Title:       b.Title,
			TitleSort:   b.TitleSort,
			Authors:     b.Authors,
			AuthorSort:  b.AuthorSort,
			Series:      b.Series,
			SeriesIndex: b.SeriesIndex,
			Publisher:   b.Publisher,
			PubDate:     formatDate(b.PubDate),
			Timestamp:   formatDate(b.Timestamp),
			LastRead:    formatDate(b.LastRead),
			Rating:      b.Rating,
			Tags:        b.Tags,
			Genres:      b.Genres,
			Formats:     b.Formats,
			ISBN:        b.ISBN,
			Languages:   b.Languages,
			Description: b.Description,

			ShortDescription: b.ShortDescription,

			CoverPath:  b.CoverPath,
			ReadStatus: b.ReadStatus,
			Wishlist:   b.Wishlist,
			Prefix:     b.Prefix,
		})
	}
	return out
}

// JsonToBooks converts the protocol representation back to catalog records,
// applying any mutations the processor made
func JsonToBooks(records []JsonRecord) ([]*models.Book, error) {
	out := make([]*models.Book, 0, len(records))
	for _, r := range records {
		b := &models.Book{
			ID:          r.ID,
			UUID:        r.UUID,
			Title:       r.Title,
			TitleSort:   r.TitleSort,
			Authors:     r.Authors,
			AuthorSort:  r.AuthorSort,
			Series:      r.Series,
			SeriesIndex: r.SeriesIndex,
			Publisher:   r.Publisher,
			Rating:      r.Rating,
			Tags:        r.Tags,
			Genres:      r.Genres,
			Formats:     r.Formats,
			ISBN:        r.ISBN,
			Languages:   r.Languages,
			Description: r.Description,

			ShortDescription: r.ShortDescription,

			CoverPath:  r.CoverPath,
			ReadStatus: r.ReadStatus,
			Wishlist:   r.Wishlist,
			Prefix:     r.Prefix,
		}

		var err error
		if b.PubDate, err = parseDate(r.PubDate); err != nil {
			return nil, err
		}
		if b.Timestamp, err = parseDate(r.Timestamp); err != nil {
			return nil, err
		}
		if b.LastRead, err = parseDate(r.LastRead); err != nil {
			return nil, err
		}

		out = append(out, b)
	}
	return out, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

// NewProcessorContext creates a context for passing to an external processor
func NewProcessorContext(books []*models.Book, cfg *config.Config, format string) *ProcessorContext {
	configMap := make(map[string]interface{})
	if cfg != nil {
		configMap["catalog"] = map[string]interface{}{
			"title":    cfg.Catalog.Title,
			"basename": cfg.Catalog.Basename,
			"search":   cfg.Catalog.Search,
		}
		configMap["epub"] = map[string]interface{}{
			"sections":       cfg.Epub.Sections,
			"output-profile": cfg.Epub.OutputProfile,
		}
		configMap["processor"] = cfg.Processor
	}

	return &ProcessorContext{
		Books:   BooksToJson(books),
		Config:  configMap,
		Format:  format,
		Version: "0.1",
	}
}

// UnmarshalContext unmarshals a context from JSON
func UnmarshalContext(data []byte) (*ProcessorContext, error) {
	var ctx ProcessorContext
	if err := json.Unmarshal(data, &ctx); err != nil {
		return nil, err
	}
	return &ctx, nil
}
