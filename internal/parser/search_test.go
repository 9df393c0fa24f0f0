package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSearchFreeText(t *testing.T) {
	s, err := ParseSearch("dune")
	require.NoError(t, err)
	require.Len(t, s.Terms, 1)
	assert.Equal(t, "", s.Terms[0].Field)
	assert.Equal(t, "dune", s.Terms[0].Value)
	assert.False(t, s.Terms[0].Exact)
}

func TestParseSearchFieldTerms(t *testing.T) {
	s, err := ParseSearch(`tag:"=Science Fiction" author:Herbert`)
	require.NoError(t, err)
	require.Len(t, s.Terms, 2)

	assert.Equal(t, "tags", s.Terms[0].Field)
	assert.Equal(t, "Science Fiction", s.Terms[0].Value)
	assert.True(t, s.Terms[0].Exact)

	assert.Equal(t, "authors", s.Terms[1].Field)
	assert.Equal(t, "Herbert", s.Terms[1].Value)
	assert.False(t, s.Terms[1].Exact)
}

func TestParseSearchNegation(t *testing.T) {
	s, err := ParseSearch("!tag:Catalog")
	require.NoError(t, err)
	require.Len(t, s.Terms, 1)
	assert.True(t, s.Terms[0].Negated)
	assert.Equal(t, "tags", s.Terms[0].Field)
	assert.Equal(t, "Catalog", s.Terms[0].Value)
}

func TestParseSearchUnknownField(t *testing.T) {
	_, err := ParseSearch("shelf:top")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shelf")
}

func TestParseSearchEmpty(t *testing.T) {
	s, err := ParseSearch("   ")
	require.NoError(t, err)
	assert.True(t, s.Empty())
}
