// Package thumbs generates cover thumbnails with a zip-backed cache, so
// rebuilding a catalog only rescales covers that actually changed.
package thumbs

import (
	"archive/zip"
	"bytes"
	"fmt"
	"hash/crc32"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"

	log "github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"github.com/geocine/bookcat/internal/epub"
	"github.com/geocine/bookcat/internal/models"
	"github.com/geocine/bookcat/internal/render"
)

// dpi converts the configured thumb width in inches to pixels
const dpi = 100

const jpegQuality = 70

type cacheEntry struct {
	comment string // cover CRC32, hex
	data    []byte
}

// Cache scales covers into thumbnails, reusing entries from a thumbs.zip
// written by a previous run. An entry is reused when the stored CRC of the
// cover bytes still matches; a width change drops the whole cache.
type Cache struct {
	path    string
	width   float64 // inches
	kindle  bool
	entries map[string]cacheEntry
}

// NewCache opens the cache at path, which may not exist yet
func NewCache(path string, width float64, kindle bool) *Cache {
	c := &Cache{
		path:    path,
		width:   width,
		kindle:  kindle,
		entries: make(map[string]cacheEntry),
	}
	c.load()
	return c
}

// load reads the previous cache contents. Any failure just means a cold
// cache, never an error.
func (c *Cache) load() {
	zr, err := zip.OpenReader(c.path)
	if err != nil {
		return
	}
	defer zr.Close()

	if zr.Comment != c.widthComment() {
		log.Debugf("thumbnail width changed, invalidating cache %s", c.path)
		return
	}

	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		c.entries[f.Name] = cacheEntry{comment: f.Comment, data: data}
	}
}

// Generate produces the thumbnail images for every book with a cover and
// persists the refreshed cache
func (c *Cache) Generate(books []*models.Book) ([]epub.Image, error) {
	var images []epub.Image
	fresh := make(map[string]cacheEntry)
	hits := 0

	for _, book := range books {
		if book.CoverPath == "" {
			continue
		}

		cover, err := os.ReadFile(book.CoverPath)
		if err != nil {
			log.Warnf("failed to read cover of %q: %v", book.Title, err)
			continue
		}

		name := render.ThumbFile(book)
		crc := strconv.FormatUint(uint64(crc32.ChecksumIEEE(cover)), 16)

		if entry, ok := c.entries[name]; ok && entry.comment == crc {
			hits++
			fresh[name] = entry
			images = append(images, epub.Image{Name: name, Data: entry.data})
			continue
		}

		data, err := c.scale(cover)
		if err != nil {
			log.Warnf("failed to scale cover of %q: %v", book.Title, err)
			continue
		}
		fresh[name] = cacheEntry{comment: crc, data: data}
		images = append(images, epub.Image{Name: name, Data: data})
	}

	log.Debugf("thumbnails: %d generated, %d cached", len(images)-hits, hits)

	c.entries = fresh
	if err := c.save(); err != nil {
		return nil, err
	}
	return images, nil
}

// scale decodes a cover and fits it into the thumbnail box, preserving the
// aspect ratio
func (c *Cache) scale(cover []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(cover))
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover: %w", err)
	}

	maxW, maxH := c.pixelSize()
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("cover has empty bounds")
	}

	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	if scale > 1 {
		scale = 1
	}

	dstW := int(float64(w) * scale)
	dstH := int(float64(h) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// pixelSize returns the thumbnail box. Height runs 4:3 over the width, and
// the Kindle profile halves both.
func (c *Cache) pixelSize() (int, int) {
	w := int(c.width * dpi)
	h := w * 4 / 3
	if c.kindle {
		w /= 2
		h /= 2
	}
	return w, h
}

func (c *Cache) widthComment() string {
	return fmt.Sprintf("thumb_width=%.2f", c.width)
}

// save rewrites the cache archive with the entries of this run
func (c *Cache) save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	if err := zw.SetComment(c.widthComment()); err != nil {
		return fmt.Errorf("failed to set cache comment: %w", err)
	}

	for name, entry := range c.entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:    name,
			Comment: entry.comment,
			Method:  zip.Store, // entries are JPEG, already compressed
		})
		if err != nil {
			return fmt.Errorf("failed to create cache entry %s: %w", name, err)
		}
		if _, err := w.Write(entry.data); err != nil {
			return fmt.Errorf("failed to write cache entry %s: %w", name, err)
		}
	}

	return zw.Close()
}
