package fetch

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSortTitle(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"The Stars My Destination", "Stars My Destination"},
		{"A Wrinkle in Time", "Wrinkle in Time"},
		{"An Instance of the Fingerpost", "Instance of the Fingerpost"},
		{"2001: A Space Odyssey", "2001: A Space Odyssey"},
		{"20 Years After", "0000000020 Years After"},
		{"2 Years After", "0000000002 Years After"},
		{"#haters", "/#haters"},
		{"The", "The"},
		{"", ""},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, GenerateSortTitle(c.title), "title %q", c.title)
	}
}

func TestGenerateSortTitleSymbolsGroupFirst(t *testing.T) {
	keys := []string{
		GenerateSortTitle("Zebra"),
		GenerateSortTitle("#Cats"),
		GenerateSortTitle("Apple"),
	}
	sort.Strings(keys)

	// "/" sorts below the letters, so the symbol group comes first
	assert.Equal(t, "/#Cats", keys[0])
	assert.Equal(t, "Zebra", keys[2])
}

func TestGenerateSortTitleNumericOrdering(t *testing.T) {
	keys := []string{
		GenerateSortTitle("10 Days"),
		GenerateSortTitle("2 Days"),
	}
	sort.Strings(keys)
	assert.Equal(t, GenerateSortTitle("2 Days"), keys[0])
}

func TestAuthorToAuthorSort(t *testing.T) {
	assert.Equal(t, "Herbert, Frank", AuthorToAuthorSort("Frank Herbert"))
	assert.Equal(t, "Le Guin, Ursula K.", AuthorToAuthorSort("Ursula K. Le Guin"))
	assert.Equal(t, "Homer", AuthorToAuthorSort("Homer"))
	assert.Equal(t, "Smith, john", AuthorToAuthorSort("john smith"))
}

func TestAuthorSortKeySeriesAfterStandalone(t *testing.T) {
	standalone := AuthorSortKey("", 0, "Zebra Tales")
	series := AuthorSortKey("Alphabet Books", 1, "Aardvark")

	// Standalone books sort before any series, even when the series name
	// sorts earlier alphabetically
	assert.Less(t, standalone, series)
}

func TestAuthorSortKeySeriesIndexOrder(t *testing.T) {
	two := AuthorSortKey("Dune Chronicles", 2, "Dune Messiah")
	ten := AuthorSortKey("Dune Chronicles", 10, "Later Book")

	assert.Less(t, two, ten)
}

func TestAuthorSortKeyFractionalIndex(t *testing.T) {
	half := AuthorSortKey("Vorkosigan", 0.5, "Prequel")
	one := AuthorSortKey("Vorkosigan", 1, "First")

	assert.Less(t, half, one)
}
