package epub

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var manifestIDRe = regexp.MustCompile(`\W`)

// manifestID derives a stable manifest id from an entry file name
func manifestID(name string) string {
	return manifestIDRe.ReplaceAllString(name, "_")
}

// generateOPF creates the content.opf package document. The catalog uses
// EPUB 2 packaging so the NCX stays the authoritative navigation.
func (b *Builder) generateOPF() string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="uuid_id">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">
`)

	language := b.cfg.GetString("catalog.language", "en")

	sb.WriteString(fmt.Sprintf("    <dc:identifier id=\"uuid_id\" opf:scheme=\"uuid\">%s</dc:identifier>\n", b.uid))
	sb.WriteString(fmt.Sprintf("    <dc:title>%s</dc:title>\n", escapeXML(b.title)))
	sb.WriteString("    <dc:creator opf:role=\"aut\">bookcat</dc:creator>\n")
	sb.WriteString(fmt.Sprintf("    <dc:language>%s</dc:language>\n", language))
	sb.WriteString(fmt.Sprintf("    <dc:date>%s</dc:date>\n", time.Now().UTC().Format("2006-01-02T15:04:05Z")))
	sb.WriteString("  </metadata>\n\n")

	sb.WriteString("  <manifest>\n")
	sb.WriteString("    <item id=\"ncx\" href=\"toc.ncx\" media-type=\"application/x-dtbncx+xml\"/>\n")
	sb.WriteString("    <item id=\"stylesheet\" href=\"styles/stylesheet.css\" media-type=\"text/css\"/>\n")
	for _, doc := range b.docs {
		sb.WriteString(fmt.Sprintf("    <item id=\"%s\" href=\"content/%s\" media-type=\"application/xhtml+xml\"/>\n",
			manifestID(doc.Name), doc.Name))
	}
	for _, img := range b.images {
		sb.WriteString(fmt.Sprintf("    <item id=\"%s\" href=\"images/%s\" media-type=\"image/jpeg\"/>\n",
			manifestID(img.Name), img.Name))
	}
	if b.cfg.Epub.GenerateForKindle {
		sb.WriteString("    <item id=\"masthead\" href=\"images/masthead.svg\" media-type=\"image/svg+xml\"/>\n")
	}
	sb.WriteString("  </manifest>\n\n")

	// Spine order follows the document order, which the renderer already
	// emits in presentation order
	sb.WriteString("  <spine toc=\"ncx\">\n")
	for _, doc := range b.docs {
		sb.WriteString(fmt.Sprintf("    <itemref idref=\"%s\"/>\n", manifestID(doc.Name)))
	}
	sb.WriteString("  </spine>\n\n")

	sb.WriteString("  <guide>\n")
	if len(b.docs) > 0 {
		sb.WriteString(fmt.Sprintf("    <reference type=\"toc\" title=\"%s\" href=\"content/%s\"/>\n",
			escapeXML(b.title), b.docs[0].Name))
	}
	sb.WriteString("  </guide>\n")

	sb.WriteString("</package>\n")
	return sb.String()
}

// escapeXML escapes the XML special characters
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
