package testutil

import (
	"bytes"
	"database/sql"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// SeedLibrary builds a small library on disk: metadata.db with the schema the
// reader expects, two books and one real JPEG cover. Returns the library root.
func SeedLibrary(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	db, err := sql.Open("sqlite", filepath.Join(root, "metadata.db"))
	require.NoError(t, err)
	defer db.Close()

	schema := []string{
		`CREATE TABLE books (id INTEGER PRIMARY KEY, title TEXT, sort TEXT,
			author_sort TEXT, timestamp TEXT, pubdate TEXT, series_index REAL,
			path TEXT, has_cover BOOL, uuid TEXT)`,
		`CREATE TABLE comments (book INTEGER, text TEXT)`,
		`CREATE TABLE authors (id INTEGER PRIMARY KEY, name TEXT, sort TEXT)`,
		`CREATE TABLE books_authors_link (id INTEGER PRIMARY KEY, book INTEGER, author INTEGER)`,
		`CREATE TABLE tags (id INTEGER PRIMARY KEY, name TEXT)`,
		`CREATE TABLE books_tags_link (id INTEGER PRIMARY KEY, book INTEGER, tag INTEGER)`,
		`CREATE TABLE series (id INTEGER PRIMARY KEY, name TEXT, sort TEXT)`,
		`CREATE TABLE books_series_link (id INTEGER PRIMARY KEY, book INTEGER, series INTEGER)`,
		`CREATE TABLE publishers (id INTEGER PRIMARY KEY, name TEXT)`,
		`CREATE TABLE books_publishers_link (id INTEGER PRIMARY KEY, book INTEGER, publisher INTEGER)`,
		`CREATE TABLE data (id INTEGER PRIMARY KEY, book INTEGER, format TEXT, name TEXT)`,
		`CREATE TABLE languages (id INTEGER PRIMARY KEY, lang_code TEXT)`,
		`CREATE TABLE books_languages_link (id INTEGER PRIMARY KEY, book INTEGER, lang_code INTEGER)`,
		`CREATE TABLE identifiers (id INTEGER PRIMARY KEY, book INTEGER, type TEXT, val TEXT)`,
		`CREATE TABLE ratings (id INTEGER PRIMARY KEY, rating INTEGER)`,
		`CREATE TABLE books_ratings_link (id INTEGER PRIMARY KEY, book INTEGER, rating INTEGER)`,
		`CREATE TABLE custom_columns (id INTEGER PRIMARY KEY, label TEXT, datatype TEXT)`,
		`CREATE TABLE custom_column_1 (id INTEGER PRIMARY KEY, book INTEGER, value TEXT)`,
	}
	for _, stmt := range schema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	seed := []string{
		`INSERT INTO books VALUES
			(1, 'Dune', 'Dune', 'Herbert, Frank', '2026-01-05 10:00:00', '1965-08-01', 1.0,
			 'Frank Herbert/Dune (1)', 1, 'uuid-dune'),
			(2, 'Emma', 'Emma', 'Austen, Jane', '2026-02-01 09:30:00', '1815-12-23', 0.0,
			 'Jane Austen/Emma (2)', 0, 'uuid-emma')`,
		`INSERT INTO comments VALUES (1, '<p>Spice and sand.</p>')`,
		`INSERT INTO authors VALUES (1, 'Frank Herbert', 'Herbert, Frank'), (2, 'Jane Austen', 'Austen, Jane')`,
		`INSERT INTO books_authors_link VALUES (1, 1, 1), (2, 2, 2)`,
		`INSERT INTO tags VALUES (1, 'Science Fiction'), (2, '+')`,
		`INSERT INTO books_tags_link VALUES (1, 1, 1), (2, 1, 2)`,
		`INSERT INTO series VALUES (1, 'Dune Chronicles', 'Dune Chronicles')`,
		`INSERT INTO books_series_link VALUES (1, 1, 1)`,
		`INSERT INTO publishers VALUES (1, 'Chilton Books')`,
		`INSERT INTO books_publishers_link VALUES (1, 1, 1)`,
		`INSERT INTO data VALUES (1, 1, 'EPUB', 'Dune - Frank Herbert')`,
		`INSERT INTO identifiers VALUES (1, 1, 'isbn', '9780441013593')`,
		`INSERT INTO ratings VALUES (1, 8)`,
		`INSERT INTO books_ratings_link VALUES (1, 1, 1)`,
		`INSERT INTO custom_columns VALUES (1, 'date_read', 'datetime')`,
		`INSERT INTO custom_column_1 VALUES (1, 1, '2026-02-10 20:15:00')`,
	}
	for _, stmt := range seed {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	bookDir := filepath.Join(root, "Frank Herbert", "Dune (1)")
	require.NoError(t, os.MkdirAll(bookDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(bookDir, "cover.jpg"), CoverJPEG(t), 0644))

	return root
}

// CoverJPEG returns a small valid JPEG usable as a cover fixture
func CoverJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 4), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// WriteFile writes content to a file in the test directory
func WriteFile(t *testing.T, dir, path, content string) {
	fullPath := filepath.Join(dir, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
	require.NoError(t, os.WriteFile(fullPath, []byte(content), 0644))
}
