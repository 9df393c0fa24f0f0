package epub

import (
	"fmt"
	"strings"
)

// NavPoint is one entry of the NCX navigation tree. Src points into the
// content documents and must match the anchors they carry.
type NavPoint struct {
	Title string
	Src   string
	// Author and Description feed the Kindle reader's article metadata and
	// stay empty on other profiles
	Author      string
	Description string
	Children    []*NavPoint
}

// generateNCX creates the toc.ncx navigation document. Play order numbers
// run depth-first through the whole tree so readers page through sections
// and their articles in presentation order.
func (b *Builder) generateNCX() string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" xmlns:calibre="http://calibre.kindle.com/2005/ncx" version="2005-1">
  <head>
    <meta name="dtb:uid" content="` + b.uid + `"/>
    <meta name="dtb:depth" content="3"/>
    <meta name="dtb:totalPageCount" content="0"/>
    <meta name="dtb:maxPageNumber" content="0"/>
  </head>
  <docTitle>
    <text>` + escapeXML(b.title) + `</text>
  </docTitle>
  <navMap>
`)

	playOrder := 1
	root := &NavPoint{Title: b.title, Children: b.nav}
	if len(b.docs) > 0 {
		root.Src = "content/" + b.docs[0].Name
	}
	b.writeNavPoint(&sb, root, "periodical", 2, &playOrder)

	sb.WriteString(`  </navMap>
</ncx>
`)
	return sb.String()
}

// writeNavPoint emits one navPoint and recurses into its children, bumping
// the shared play order counter as it goes
func (b *Builder) writeNavPoint(sb *strings.Builder, np *NavPoint, class string, indent int, playOrder *int) {
	pad := strings.Repeat("  ", indent)

	sb.WriteString(fmt.Sprintf("%s<navPoint class=\"%s\" id=\"navPoint-%d\" playOrder=\"%d\">\n",
		pad, class, *playOrder, *playOrder))
	*playOrder++

	sb.WriteString(fmt.Sprintf("%s  <navLabel><text>%s</text></navLabel>\n", pad, escapeXML(np.Title)))
	if np.Src != "" {
		sb.WriteString(fmt.Sprintf("%s  <content src=\"%s\"/>\n", pad, np.Src))
	}
	if b.cfg.Epub.GenerateForKindle {
		if np.Author != "" {
			sb.WriteString(fmt.Sprintf("%s  <calibre:meta name=\"author\">%s</calibre:meta>\n",
				pad, escapeXML(np.Author)))
		}
		if np.Description != "" {
			sb.WriteString(fmt.Sprintf("%s  <calibre:meta name=\"description\">%s</calibre:meta>\n",
				pad, escapeXML(np.Description)))
		}
	}

	childClass := "section"
	if class != "periodical" {
		childClass = "article"
	}
	for _, child := range np.Children {
		b.writeNavPoint(sb, child, childClass, indent+1, playOrder)
	}

	sb.WriteString(pad + "</navPoint>\n")
}
