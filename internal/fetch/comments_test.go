package fetch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCommentsMarkdown(t *testing.T) {
	out, err := NormalizeComments("A **classic** of the genre.")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>classic</strong>")
}

func TestNormalizeCommentsHTMLPassthrough(t *testing.T) {
	in := "<p>Already <i>markup</i>.</p>"
	out, err := NormalizeComments(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestNormalizeCommentsEmpty(t *testing.T) {
	out, err := NormalizeComments("   ")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestParseMergeSpec(t *testing.T) {
	ms, err := ParseMergeSpec("notes:append:hr")
	require.NoError(t, err)
	assert.Equal(t, "notes", ms.Column)
	assert.Equal(t, "append", ms.Position)

	disabled, err := ParseMergeSpec("")
	require.NoError(t, err)
	assert.Nil(t, disabled)

	disabled, err = ParseMergeSpec("::")
	require.NoError(t, err)
	assert.Nil(t, disabled)

	_, err = ParseMergeSpec("notes:sideways:hr")
	require.Error(t, err)
}

func TestMergeComments(t *testing.T) {
	spec := &MergeSpec{Column: "notes", Position: "append", Separator: "hr"}

	merged := MergeComments("<p>Comments.</p>", "<p>Notes.</p>", spec)
	assert.Contains(t, merged, "merged_comments_divider")
	assert.True(t, strings.HasPrefix(merged, "<p>Comments.</p>"))
	assert.True(t, strings.HasSuffix(merged, "<p>Notes.</p>"))

	spec.Position = "prepend"
	spec.Separator = "blank"
	merged = MergeComments("<p>Comments.</p>", "<p>Notes.</p>", spec)
	assert.Equal(t, "<p>Notes.</p>\n<p>Comments.</p>", merged)

	// Nothing to merge
	assert.Equal(t, "<p>Comments.</p>", MergeComments("<p>Comments.</p>", "", spec))
	assert.Equal(t, "<p>Notes.</p>", MergeComments("", "<p>Notes.</p>", spec))
}

func TestShortDescription(t *testing.T) {
	long := "<p>The quick brown fox jumps over the lazy dog again and again.</p>"

	short := ShortDescription(long, 20)
	assert.Equal(t, "The quick brown fox...", short)

	// Under the clip nothing changes
	assert.Equal(t, "The quick brown fox jumps over the lazy dog again and again.",
		ShortDescription(long, 500))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "Spice & sand.",
		StripHTML("<p>Spice &amp; <b>sand</b>.</p>"))
}
