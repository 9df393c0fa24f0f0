package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocine/bookcat/internal/config"
	"github.com/geocine/bookcat/internal/models"
	"github.com/geocine/bookcat/internal/processor"
	"github.com/geocine/bookcat/internal/processor/exclusions"
	"github.com/geocine/bookcat/internal/processor/readstatus"
	"github.com/geocine/bookcat/internal/rules"
)

func testBuiltins(t *testing.T, rs *rules.Ruleset) []processor.Processor {
	t.Helper()
	read, err := readstatus.NewReadStatusProcessor("tag:+", "Wishlist", rs)
	require.NoError(t, err)
	return []processor.Processor{
		exclusions.NewExclusionsProcessor(rs),
		read,
	}
}

func TestRunnerBuiltins(t *testing.T) {
	cfg := config.NewDefaultConfig()
	rs, err := rules.LoadFromString(`
exclusions:
  - name: Catalog feedback
    field: tags
    pattern: "^Catalog$"
prefixes:
  - name: Read book
    field: read
    pattern: "true"
    prefix: "+"
`)
	require.NoError(t, err)

	r := NewRunner(cfg, "epub", testBuiltins(t, rs))

	books := []*models.Book{
		{Title: "Keep Me", Tags: []string{"Fiction", "+"}},
		{Title: "Drop Me", Tags: []string{"Catalog"}},
		{Title: "Want Me", Tags: []string{"Wishlist"}},
	}

	out, err := r.Run(books)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "Keep Me", out[0].Title)
	assert.True(t, out[0].ReadStatus)
	assert.Equal(t, "+", out[0].Prefix)

	assert.Equal(t, "Want Me", out[1].Title)
	assert.True(t, out[1].Wishlist)
}

func TestRunnerExecutionOrder(t *testing.T) {
	cfg, err := config.LoadFromString(`
[processor.retag]
command = "bookcat-retag"
after = ["readstatus"]
`)
	require.NoError(t, err)

	r := NewRunner(cfg, "epub", testBuiltins(t, rules.Default()))

	order, err := r.GetExecutionOrder()
	require.NoError(t, err)
	require.Len(t, order, 3)

	pos := make(map[string]int)
	for i, name := range order {
		pos[name] = i
	}
	assert.Less(t, pos["readstatus"], pos["retag"])
}

func TestRunnerSkipsDisabledExternals(t *testing.T) {
	cfg, err := config.LoadFromString(`
[processor.missing]
command = "definitely-not-on-path"
`)
	require.NoError(t, err)

	r := NewRunner(cfg, "epub", testBuiltins(t, rules.Default()))
	r.SetDisableExternals(true)

	out, err := r.Run([]*models.Book{{Title: "A"}})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}
