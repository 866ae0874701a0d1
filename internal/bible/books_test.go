package bible

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Book table
// =============================================================================

func TestBooks(t *testing.T) {
	t.Run("has 66 books in canonical order", func(t *testing.T) {
		all := Books()
		require.Len(t, all, LastBookID)
		for i, b := range all {
			assert.Equal(t, i+1, b.ID, "book %s out of order", b.Name)
			assert.Positive(t, b.Chapters, "book %s has no chapters", b.Name)
		}
	})

	t.Run("abbreviations are unique", func(t *testing.T) {
		seen := make(map[string]int)
		for _, b := range Books() {
			prev, dup := seen[b.Abbr]
			assert.False(t, dup, "abbreviation %q shared by %d and %d", b.Abbr, prev, b.ID)
			seen[b.Abbr] = b.ID
		}
	})
}

func TestBookByID(t *testing.T) {
	john, ok := BookByID(43)
	require.True(t, ok)
	assert.Equal(t, "요한복음", john.Name)
	assert.Equal(t, 21, john.Chapters)

	_, ok = BookByID(0)
	assert.False(t, ok)
	_, ok = BookByID(67)
	assert.False(t, ok)
}

func TestNextPrevBook(t *testing.T) {
	acts, ok := NextBook(43)
	require.True(t, ok)
	assert.Equal(t, "사도행전", acts.Name)

	malachi, ok := PrevBook(40)
	require.True(t, ok)
	assert.Equal(t, "말라기", malachi.Name)

	_, ok = NextBook(LastBookID)
	assert.False(t, ok, "no book after Revelation")
	_, ok = PrevBook(FirstBookID)
	assert.False(t, ok, "no book before Genesis")
}

// =============================================================================
// Lookup by name
// =============================================================================

func TestFindBook(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"korean name", "요한복음", 43},
		{"abbreviation", "요", 43},
		{"english name", "John", 43},
		{"english name ignores case", "revelation", 66},
		{"numbered english name", "1 John", 62},
		{"surrounding whitespace", "  창  ", 1},
		{"typed on english layout", "dy", 43},
		{"two syllable abbreviation on english layout", "tkatkd", 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book, ok := FindBook(tt.query)
			require.True(t, ok)
			assert.Equal(t, tt.want, book.ID)
		})
	}

	t.Run("unknown and empty queries", func(t *testing.T) {
		_, ok := FindBook("없는책")
		assert.False(t, ok)
		_, ok = FindBook("   ")
		assert.False(t, ok)
	})
}

func TestFindBookByAbbr(t *testing.T) {
	book, ok := FindBookByAbbr("계")
	require.True(t, ok)
	assert.Equal(t, 66, book.ID)

	book, ok = FindBookByAbbr("ckd")
	require.True(t, ok)
	assert.Equal(t, 1, book.ID)

	_, ok = FindBookByAbbr("요한복음")
	assert.False(t, ok, "full names are not abbreviations")
}
