package reader

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azyu/bibleview/internal/bible"
	"github.com/azyu/bibleview/internal/navigation"
	"github.com/azyu/bibleview/internal/storage/storagetest"
	"github.com/azyu/bibleview/pkg/types"
)

func at(book, chapter, verse int) types.VersePosition {
	return types.VersePosition{BookID: book, Chapter: chapter, Verse: verse}
}

func newSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(storagetest.NewStore(t), bible.KoreanRevised, nil)
}

func openAt(t *testing.T, s *Session, pos types.VersePosition) Verse {
	t.Helper()
	v, err := s.Open(context.Background(), pos)
	require.NoError(t, err)
	return v
}

// =============================================================================
// Open
// =============================================================================

func TestOpen(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()

	t.Run("loads verse", func(t *testing.T) {
		v := openAt(t, s, at(43, 3, 16))
		assert.Equal(t, "요한복음 3:16", v.Reference())
		assert.True(t, strings.HasPrefix(v.Text, "하나님이 세상을"))

		cur, ok := s.Current()
		require.True(t, ok)
		assert.Equal(t, v, cur)
	})

	t.Run("missing verse leaves session unchanged", func(t *testing.T) {
		_, err := s.Open(ctx, at(43, 3, 37))
		assert.True(t, errors.Is(err, bible.ErrNotFound))

		cur, _ := s.Current()
		assert.Equal(t, at(43, 3, 16), cur.Position)
	})

	t.Run("invalid reference never reaches the store", func(t *testing.T) {
		_, err := s.Open(ctx, at(43, 0, 1))
		assert.True(t, errors.Is(err, bible.ErrInvalidReference))
	})
}

// =============================================================================
// Step
// =============================================================================

func TestStep(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an open verse", func(t *testing.T) {
		s := newSession(t)
		_, err := s.Step(ctx, navigation.Forward)
		assert.ErrorIs(t, err, ErrNoVerse)
	})

	t.Run("forward and back", func(t *testing.T) {
		s := newSession(t)
		openAt(t, s, at(43, 3, 36))

		v, err := s.Step(ctx, navigation.Forward)
		require.NoError(t, err)
		assert.Equal(t, at(43, 4, 1), v.Position)

		v, err = s.Step(ctx, navigation.Backward)
		require.NoError(t, err)
		assert.Equal(t, at(43, 3, 36), v.Position)
	})

	t.Run("boundary leaves session unchanged", func(t *testing.T) {
		s := newSession(t)
		openAt(t, s, at(66, 22, 21))

		_, err := s.Step(ctx, navigation.Forward)
		assert.ErrorIs(t, err, navigation.ErrBoundary)
		cur, _ := s.Current()
		assert.Equal(t, at(66, 22, 21), cur.Position)
	})

	t.Run("target without text is refused", func(t *testing.T) {
		s := newSession(t)
		openAt(t, s, at(1, 1, 31))

		_, err := s.Step(ctx, navigation.Forward)
		assert.True(t, errors.Is(err, bible.ErrNotFound))
		cur, _ := s.Current()
		assert.Equal(t, at(1, 1, 31), cur.Position)

		v, err := s.Step(ctx, navigation.Backward)
		require.NoError(t, err, "the next step starts from the last applied verse")
		assert.Equal(t, at(1, 1, 30), v.Position)
	})

	t.Run("stale step is dropped", func(t *testing.T) {
		s := newSession(t)
		openAt(t, s, at(43, 3, 16))

		oldGen, oldFrom, err := s.BeginStep()
		require.NoError(t, err)
		newGen, newFrom, err := s.BeginStep()
		require.NoError(t, err)

		newer := s.ResolveStep(ctx, newGen, newFrom, navigation.Backward)
		older := s.ResolveStep(ctx, oldGen, oldFrom, navigation.Forward)

		v, err := s.ApplyStep(newer)
		require.NoError(t, err)
		assert.Equal(t, at(43, 3, 15), v.Position)

		_, err = s.ApplyStep(older)
		assert.ErrorIs(t, err, ErrStaleStep)
		cur, _ := s.Current()
		assert.Equal(t, at(43, 3, 15), cur.Position)
	})
}

// =============================================================================
// Versions and comparison
// =============================================================================

func TestSwitchVersion(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	openAt(t, s, at(43, 3, 16))

	require.NoError(t, s.SwitchVersion(ctx, bible.NewKoreanStandard))
	assert.Equal(t, bible.NewKoreanStandard, s.Version())
	cur, _ := s.Current()
	assert.Equal(t, storagetest.CompareText, cur.Text)

	require.NoError(t, s.SwitchVersion(ctx, bible.KoreanRevised))
	openAt(t, s, at(43, 3, 17))

	err := s.SwitchVersion(ctx, bible.NewKoreanStandard)
	assert.True(t, errors.Is(err, bible.ErrNotFound))
	assert.Equal(t, bible.KoreanRevised, s.Version(), "failed switch keeps the version")

	err = s.SwitchVersion(ctx, bible.VersionUnknown)
	assert.ErrorIs(t, err, bible.ErrUnknownVersion)
}

func TestCompare(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	openAt(t, s, at(43, 3, 16))

	t.Run("toggle opens on current version", func(t *testing.T) {
		require.NoError(t, s.ToggleCompare(ctx))
		st := s.State()
		assert.True(t, st.CompareOpen)
		assert.Equal(t, bible.KoreanRevised, st.ComparedVersion)
		assert.Equal(t, st.Current.Text, st.ComparedText)

		require.NoError(t, s.ToggleCompare(ctx))
		assert.False(t, s.State().CompareOpen)
	})

	t.Run("set compared opens panel", func(t *testing.T) {
		require.NoError(t, s.SetCompared(ctx, bible.NewKoreanStandard))
		st := s.State()
		assert.True(t, st.CompareOpen)
		assert.Equal(t, storagetest.CompareText, st.ComparedText)
	})

	t.Run("follows navigation", func(t *testing.T) {
		_, err := s.Step(ctx, navigation.Forward)
		require.NoError(t, err)
		assert.Empty(t, s.State().ComparedText, "새번역 has no 3:17")

		_, err = s.Step(ctx, navigation.Backward)
		require.NoError(t, err)
		assert.Equal(t, storagetest.CompareText, s.State().ComparedText)
	})

	t.Run("close", func(t *testing.T) {
		s.CloseCompare()
		assert.False(t, s.State().CompareOpen)
	})
}

// =============================================================================
// Copy
// =============================================================================

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func TestCopyText(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing open", func(t *testing.T) {
		_, ok := newSession(t).CopyText()
		assert.False(t, ok)
	})

	t.Run("single version", func(t *testing.T) {
		s := newSession(t)
		openAt(t, s, at(43, 3, 16))

		text, ok := s.CopyText()
		require.True(t, ok)
		assert.Equal(t, "[요한복음 3:16 (개역한글)] 하나님이 세상을 이처럼 사랑하사 독생자를 주셨으니 이는 저를 믿는 자마다 멸망치 않고 영생을 얻게 하려 하심이니라", text)
	})

	t.Run("strips markup", func(t *testing.T) {
		s := newSession(t)
		openAt(t, s, at(43, 3, 1))

		text, _ := s.CopyText()
		assert.Equal(t, "[요한복음 3:1 (개역한글)] 그런데 바리새인 중에 니고데모라 하는 사람이 있으니 유대인의 관원이라", text)
	})

	t.Run("adds compared version", func(t *testing.T) {
		s := newSession(t)
		openAt(t, s, at(43, 3, 16))
		require.NoError(t, s.SetCompared(ctx, bible.NewKoreanStandard))

		text, _ := s.CopyText()
		lines := strings.Split(text, "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "[요한복음 3:16 (새번역)] "+storagetest.CompareText, lines[1])
	})

	t.Run("copy to clipboard", func(t *testing.T) {
		s := newSession(t)
		cb := &fakeClipboard{}

		_, err := s.CopyTo(cb)
		assert.ErrorIs(t, err, ErrNoVerse)

		openAt(t, s, at(44, 1, 1))
		text, err := s.CopyTo(cb)
		require.NoError(t, err)
		assert.Equal(t, text, cb.text)
		assert.True(t, strings.HasPrefix(text, "[사도행전 1:1 (개역한글)]"))

		boom := errors.New("no clipboard")
		_, err = s.CopyTo(&fakeClipboard{err: boom})
		assert.ErrorIs(t, err, boom)
	})
}

// =============================================================================
// Recent and passage
// =============================================================================

func TestRecent(t *testing.T) {
	s := newSession(t)

	for v := 1; v <= 12; v++ {
		openAt(t, s, at(43, 4, v))
	}
	recent := s.Recent()
	require.Len(t, recent, MaxRecent)
	assert.Equal(t, at(43, 4, 12), recent[0].Position)
	assert.Equal(t, at(43, 4, 3), recent[MaxRecent-1].Position)

	openAt(t, s, at(43, 4, 5))
	recent = s.Recent()
	require.Len(t, recent, MaxRecent)
	assert.Equal(t, at(43, 4, 5), recent[0].Position)
	seen := map[types.VersePosition]bool{}
	for _, r := range recent {
		assert.False(t, seen[r.Position], "duplicate %s", r.Reference())
		seen[r.Position] = true
	}
}

func TestPassage(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)

	_, err := s.GotoPassage(ctx)
	assert.ErrorIs(t, err, ErrNoPassage)

	err = s.SetPassage(&types.ScriptureRange{Start: at(43, 3, 20), End: at(43, 3, 1)})
	assert.True(t, errors.Is(err, bible.ErrRangeInvalid))
	assert.Nil(t, s.State().Passage)

	require.NoError(t, s.SetPassage(&types.ScriptureRange{Start: at(43, 3, 16), End: at(43, 3, 21)}))
	v, err := s.GotoPassage(ctx)
	require.NoError(t, err)
	assert.Equal(t, at(43, 3, 16), v.Position)

	require.NoError(t, s.SetPassage(nil))
	assert.Nil(t, s.State().Passage)
}
