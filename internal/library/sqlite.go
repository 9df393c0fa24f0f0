package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/geocine/bookcat/internal/models"
	"github.com/geocine/bookcat/internal/parser"
)

// SQLiteSource reads book records from a library directory holding a
// metadata.db and per-book folders with covers and format files.
type SQLiteSource struct {
	root string
	db   *sql.DB
}

// OpenLibrary opens the metadata.db inside the library directory
func OpenLibrary(root string) (*SQLiteSource, error) {
	dbPath := filepath.Join(root, "metadata.db")
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("no metadata.db in %s: %w", root, err)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(2000)", filepath.ToSlash(dbPath))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open library database: %w", err)
	}

	return &SQLiteSource{root: root, db: db}, nil
}

// Close closes the underlying database
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// Books loads every record and filters with the search in-process. The
// search vocabulary is small enough that pushing it into SQL buys nothing
// on libraries of catalogable size.
func (s *SQLiteSource) Books(search *parser.Search) ([]*models.Book, error) {
	books, err := s.loadAll()
	if err != nil {
		return nil, err
	}

	if search == nil || search.Empty() {
		return books, nil
	}

	matched := books[:0]
	for _, book := range books {
		if MatchesSearch(book, search) {
			matched = append(matched, book)
		}
	}
	return matched, nil
}

func (s *SQLiteSource) loadAll() ([]*models.Book, error) {
	rows, err := s.db.Query(`
		SELECT b.id, b.uuid, b.title, b.sort, b.author_sort,
		       b.timestamp, b.pubdate, b.series_index, b.path, b.has_cover,
		       COALESCE(c.text, '')
		FROM books b
		LEFT JOIN comments c ON c.book = b.id
		ORDER BY b.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []*models.Book
	byID := make(map[int64]*models.Book)

	for rows.Next() {
		var (
			b                  models.Book
			uuid, titleSort    sql.NullString
			authorSort         sql.NullString
			timestamp, pubdate sql.NullString
			seriesIndex        sql.NullFloat64
			path               string
			hasCover           bool
		)
		if err := rows.Scan(&b.ID, &uuid, &b.Title, &titleSort, &authorSort,
			&timestamp, &pubdate, &seriesIndex, &path, &hasCover, &b.Description); err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}

		b.UUID = uuid.String
		b.TitleSort = titleSort.String
		b.AuthorSort = authorSort.String
		b.SeriesIndex = seriesIndex.Float64
		b.Timestamp = parseDBDate(timestamp.String)
		b.PubDate = parseDBDate(pubdate.String)
		if hasCover && path != "" {
			b.CoverPath = filepath.Join(s.root, filepath.FromSlash(path), "cover.jpg")
		}

		book := &b
		books = append(books, book)
		byID[b.ID] = book
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read book rows: %w", err)
	}

	if err := s.loadLinked(byID); err != nil {
		return nil, err
	}

	return books, nil
}

// loadLinked fills in the many-to-many fields with one query per table
func (s *SQLiteSource) loadLinked(byID map[int64]*models.Book) error {
	type linkQuery struct {
		query string
		apply func(b *models.Book, value string)
	}

	queries := []linkQuery{
		{
			query: `SELECT l.book, a.name FROM books_authors_link l
			        JOIN authors a ON a.id = l.author ORDER BY l.id`,
			apply: func(b *models.Book, v string) {
				b.Authors = append(b.Authors, strings.ReplaceAll(v, "|", ","))
			},
		},
		{
			query: `SELECT l.book, t.name FROM books_tags_link l
			        JOIN tags t ON t.id = l.tag`,
			apply: func(b *models.Book, v string) { b.Tags = append(b.Tags, v) },
		},
		{
			query: `SELECT l.book, s.name FROM books_series_link l
			        JOIN series s ON s.id = l.series`,
			apply: func(b *models.Book, v string) { b.Series = v },
		},
		{
			query: `SELECT l.book, p.name FROM books_publishers_link l
			        JOIN publishers p ON p.id = l.publisher`,
			apply: func(b *models.Book, v string) { b.Publisher = v },
		},
		{
			query: `SELECT d.book, d.format FROM data d`,
			apply: func(b *models.Book, v string) { b.Formats = append(b.Formats, v) },
		},
		{
			query: `SELECT l.book, la.lang_code FROM books_languages_link l
			        JOIN languages la ON la.id = l.lang_code`,
			apply: func(b *models.Book, v string) { b.Languages = append(b.Languages, v) },
		},
		{
			query: `SELECT i.book, i.val FROM identifiers i WHERE i.type = 'isbn'`,
			apply: func(b *models.Book, v string) { b.ISBN = v },
		},
	}

	for _, q := range queries {
		rows, err := s.db.Query(q.query)
		if err != nil {
			return fmt.Errorf("failed to query linked field: %w", err)
		}
		for rows.Next() {
			var bookID int64
			var value string
			if err := rows.Scan(&bookID, &value); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan linked row: %w", err)
			}
			if b, ok := byID[bookID]; ok {
				q.apply(b, value)
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("failed to read linked rows: %w", err)
		}
		rows.Close()
	}

	// Ratings are stored doubled (0-10) in a lookup table
	rows, err := s.db.Query(`SELECT l.book, r.rating FROM books_ratings_link l
	                         JOIN ratings r ON r.id = l.rating`)
	if err != nil {
		return fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var bookID int64
		var rating int
		if err := rows.Scan(&bookID, &rating); err != nil {
			return fmt.Errorf("failed to scan rating row: %w", err)
		}
		if b, ok := byID[bookID]; ok {
			b.Rating = rating
		}
	}
	return rows.Err()
}

// LoadDateColumn fills LastRead from a custom datetime column identified by
// its label. Missing column is not an error; the recently-read section just
// comes up empty.
func (s *SQLiteSource) LoadDateColumn(label string, books []*models.Book) error {
	var columnID int64
	err := s.db.QueryRow(
		`SELECT id FROM custom_columns WHERE label = ? AND datatype = 'datetime'`,
		label).Scan(&columnID)
	if err == sql.ErrNoRows {
		log.Debugf("no datetime column %q in library", label)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up column %q: %w", label, err)
	}

	byID := make(map[int64]*models.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	rows, err := s.db.Query(fmt.Sprintf(
		`SELECT book, value FROM custom_column_%d`, columnID))
	if err != nil {
		return fmt.Errorf("failed to query column %q: %w", label, err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookID int64
		var value sql.NullString
		if err := rows.Scan(&bookID, &value); err != nil {
			return fmt.Errorf("failed to scan column %q: %w", label, err)
		}
		if b, ok := byID[bookID]; ok {
			b.LastRead = parseDBDate(value.String)
		}
	}
	return rows.Err()
}

// TextColumn returns the values of a custom text/comments column keyed by
// book id. A missing column yields an empty map.
func (s *SQLiteSource) TextColumn(label string) (map[int64]string, error) {
	var columnID int64
	err := s.db.QueryRow(
		`SELECT id FROM custom_columns WHERE label = ? AND datatype IN ('text', 'comments')`,
		label).Scan(&columnID)
	if err == sql.ErrNoRows {
		log.Debugf("no text column %q in library", label)
		return map[int64]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up column %q: %w", label, err)
	}

	rows, err := s.db.Query(fmt.Sprintf(
		`SELECT book, value FROM custom_column_%d`, columnID))
	if err != nil {
		return nil, fmt.Errorf("failed to query column %q: %w", label, err)
	}
	defer rows.Close()

	out := make(map[int64]string)
	for rows.Next() {
		var bookID int64
		var value sql.NullString
		if err := rows.Scan(&bookID, &value); err != nil {
			return nil, fmt.Errorf("failed to scan column %q: %w", label, err)
		}
		out[bookID] = value.String
	}
	return out, rows.Err()
}

// FormatPath returns the on-disk path of one format file for the book, or ""
func (s *SQLiteSource) FormatPath(bookID int64, format string) string {
	var path, name string
	err := s.db.QueryRow(
		`SELECT b.path, d.name FROM books b JOIN data d ON d.book = b.id
		 WHERE b.id = ? AND d.format = ?`, bookID, strings.ToUpper(format)).
		Scan(&path, &name)
	if err != nil {
		return ""
	}
	return filepath.Join(s.root, filepath.FromSlash(path),
		name+"."+strings.ToLower(format))
}

// parseDBDate parses the loosely formatted date strings the database holds.
// Unparseable or epoch placeholder values come back as the zero time.
func parseDBDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(value)
	if err != nil {
		log.Debugf("unparseable date %q", value)
		return time.Time{}
	}
	// 0101-01-01 is the placeholder for "unset"
	if t.Year() <= 101 {
		return time.Time{}
	}
	return t
}
