// Package epub assembles the rendered catalog documents into an EPUB file.
package epub

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/klauspost/compress/flate"

	"github.com/geocine/bookcat/internal/config"
	"github.com/geocine/bookcat/internal/render"
)

// Image is one image entry of the catalog, typically a cover thumbnail
type Image struct {
	Name string // file name inside images/
	Data []byte
}

// Builder writes one catalog EPUB
type Builder struct {
	cfg    *config.Config
	title  string
	uid    string
	docs   []*render.Document
	nav    []*NavPoint
	images []Image
}

// NewBuilder creates a builder over the rendered documents. The navigation
// points must reference the same document names and anchors the documents
// carry.
func NewBuilder(cfg *config.Config, title string, docs []*render.Document, nav []*NavPoint, images []Image) *Builder {
	return &Builder{
		cfg:    cfg,
		title:  title,
		uid:    uuid.New().String(),
		docs:   docs,
		nav:    nav,
		images: images,
	}
}

// Build writes the EPUB to the given path
func (b *Builder) Build(outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	return b.WriteTo(f)
}

// BuildToBuffer writes the EPUB into a byte buffer
func (b *Builder) BuildToBuffer() (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if err := b.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteTo writes the EPUB container to a writer. The mimetype entry goes
// first and uncompressed, as the format requires.
func (b *Builder) WriteTo(w io.Writer) error {
	zw := zip.NewWriter(w)

	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	if err := b.writeMimetype(zw); err != nil {
		return err
	}
	if err := writeEntry(zw, "META-INF/container.xml", []byte(containerXML)); err != nil {
		return err
	}
	if err := writeEntry(zw, "content.opf", []byte(b.generateOPF())); err != nil {
		return err
	}
	if err := writeEntry(zw, "toc.ncx", []byte(b.generateNCX())); err != nil {
		return err
	}
	if err := writeEntry(zw, "styles/stylesheet.css", []byte(defaultStylesheet)); err != nil {
		return err
	}

	for _, doc := range b.docs {
		if err := writeEntry(zw, "content/"+doc.Name, doc.HTML); err != nil {
			return err
		}
	}
	for _, img := range b.images {
		if err := writeEntry(zw, "images/"+img.Name, img.Data); err != nil {
			return err
		}
	}

	if b.cfg.Epub.GenerateForKindle {
		if err := writeEntry(zw, "images/masthead.svg", b.mastheadSVG()); err != nil {
			return err
		}
	}

	// The central directory is only written here, so a failing flush means
	// a truncated archive
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

// mastheadSVG renders the periodical masthead banner Kindle readers show
// above the catalog sections
func (b *Builder) mastheadSVG() []byte {
	const width, height = 600, 60
	return []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
  <rect width="%d" height="%d" fill="white"/>
  <text x="%d" y="%d" text-anchor="middle" font-family="serif" font-size="28">%s</text>
</svg>
`, width, height, width, height, width, height, width/2, height/2+10, escapeXML(b.title)))
}

func (b *Builder) writeMimetype(zw *zip.Writer) error {
	header := &zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	}
	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create mimetype: %w", err)
	}
	_, err = w.Write([]byte("application/epub+zip"))
	return err
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const defaultStylesheet = `body { background-color: white; }

p.title {
  margin-top: 0em;
  margin-bottom: 0.4em;
  text-align: center;
  font-style: italic;
  font-size: xx-large;
}

p.author {
  margin-top: 0em;
  margin-bottom: 0.1em;
  text-align: center;
  font-size: large;
}

p.genres, p.publisher, p.formats {
  margin-top: 0em;
  margin-bottom: 0.1em;
  text-align: center;
  font-size: small;
}

div.thumbnail {
  text-align: center;
  margin: 0.5em;
}

hr.description_divider {
  width: 50%;
  margin-left: 25%;
  border-top: solid white 0px;
  border-right: solid white 0px;
  border-bottom: solid black 1px;
  border-left: solid white 0px;
}

hr.merged_comments_divider {
  width: 80%;
  margin-left: 10%;
  border-top: solid white 0px;
  border-right: solid white 0px;
  border-bottom: dashed gray 1px;
  border-left: solid white 0px;
}

p.letter_index {
  margin-top: 0.3em;
  margin-bottom: 0em;
  font-size: x-large;
}

p.author_index, p.series_index, p.genre_index, p.date_index {
  font-size: large;
  margin-top: 0.25em;
  margin-bottom: 0em;
  text-indent: 0em;
}

p.series {
  font-style: italic;
  margin-top: 0.10em;
  margin-bottom: 0em;
  margin-left: 2em;
  text-indent: 0em;
}

p.line_item {
  margin-top: 0em;
  margin-bottom: 0em;
  margin-left: 2em;
  text-indent: -2em;
}

span.prefix {
  font-family: monospace;
}

div.comments {
  text-align: justify;
}
`
