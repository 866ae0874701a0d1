package search_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azyu/bibleview/internal/search"
	"github.com/azyu/bibleview/pkg/types"
)

func TestPager(t *testing.T) {
	engine := newEngine(t)
	ctx := context.Background()

	q := query("본문")
	total, err := engine.Count(ctx, q)
	require.NoError(t, err)
	pager := search.NewPager(q, total)

	t.Run("only one page in flight", func(t *testing.T) {
		next, ok := pager.Next()
		require.True(t, ok)
		assert.Zero(t, next.Offset)
		assert.Equal(t, search.DefaultPageSize, next.Limit)
		assert.True(t, pager.Busy())

		_, ok = pager.Next()
		assert.False(t, ok, "second request while busy must be refused")

		page, err := engine.Search(ctx, next)
		require.NoError(t, err)
		pager.Done(page)
		assert.False(t, pager.Busy())
	})

	t.Run("loads remaining pages then stops", func(t *testing.T) {
		for pager.HasMore() {
			next, ok := pager.Next()
			require.True(t, ok)
			assert.Equal(t, len(pager.Results()), next.Offset)

			page, err := engine.Search(ctx, next)
			require.NoError(t, err)
			pager.Done(page)
		}

		assert.Len(t, pager.Results(), fillerVerses)
		_, ok := pager.Next()
		assert.False(t, ok)
	})
}

func TestPagerFailure(t *testing.T) {
	pager := search.NewPager(query("사랑"), 3)

	_, ok := pager.Next()
	require.True(t, ok)
	pager.Fail()

	next, ok := pager.Next()
	require.True(t, ok, "a failed page can be retried")
	assert.Zero(t, next.Offset)
}

func TestPagerShortPage(t *testing.T) {
	pager := search.NewPager(query("사랑"), 150)

	_, ok := pager.Next()
	require.True(t, ok)
	pager.Done([]types.SearchResult{{Book: 43, Chapter: 3, Verse: 16}})

	assert.Equal(t, 1, pager.Total(), "a short page ends paging")
	assert.False(t, pager.HasMore())
}
