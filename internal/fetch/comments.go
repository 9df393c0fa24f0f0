package fetch

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

var (
	htmlTagRe    = regexp.MustCompile(`(?i)<(p|div|br|span|a|i|b|em|strong|ul|ol|hr)[\s/>]`)
	anyTagRe     = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

var commentsMarkdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
	),
	goldmark.WithRendererOptions(
		ghtml.WithUnsafe(),
	),
)

// NormalizeComments returns the description as HTML. Plain text and
// markdown-looking input is converted; content already carrying markup
// passes through untouched.
func NormalizeComments(comments string) (string, error) {
	comments = strings.TrimSpace(comments)
	if comments == "" {
		return "", nil
	}
	if htmlTagRe.MatchString(comments) {
		return comments, nil
	}

	var buf bytes.Buffer
	if err := commentsMarkdown.Convert([]byte(comments), &buf); err != nil {
		return "", fmt.Errorf("failed to convert comments: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// MergeSpec describes how an extra text column is folded into comments:
// "column:position:separator" with position "append" or "prepend" and
// separator "hr" or "blank"
type MergeSpec struct {
	Column    string
	Position  string
	Separator string
}

// ParseMergeSpec parses the merge-comments option. An empty spec disables
// merging.
func ParseMergeSpec(spec string) (*MergeSpec, error) {
	if spec == "" || spec == "::" {
		return nil, nil
	}
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("merge-comments %q is not column:position:separator", spec)
	}

	ms := &MergeSpec{Column: parts[0], Position: parts[1], Separator: parts[2]}
	if ms.Position != "append" && ms.Position != "prepend" {
		return nil, fmt.Errorf("merge-comments position %q must be append or prepend", ms.Position)
	}
	if ms.Separator != "hr" && ms.Separator != "blank" {
		return nil, fmt.Errorf("merge-comments separator %q must be hr or blank", ms.Separator)
	}
	return ms, nil
}

// MergeComments folds the extra column content into the comments HTML
func MergeComments(comments, extra string, spec *MergeSpec) string {
	extra = strings.TrimSpace(extra)
	if spec == nil || extra == "" {
		return comments
	}
	if comments == "" {
		return extra
	}

	sep := "\n"
	if spec.Separator == "hr" {
		sep = "\n<hr class=\"merged_comments_divider\"/>\n"
	}

	if spec.Position == "prepend" {
		return extra + sep + comments
	}
	return comments + sep + extra
}

// ShortDescription truncates plain text at a word boundary within max runes,
// appending an ellipsis when anything was cut. HTML input is flattened first.
func ShortDescription(description string, max int) string {
	text := StripHTML(description)
	if max <= 0 || len([]rune(text)) <= max {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

// StripHTML flattens markup to plain text with collapsed whitespace
func StripHTML(s string) string {
	s = anyTagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
