package main

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azyu/bibleview/internal/bible"
	"github.com/azyu/bibleview/pkg/types"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestBookRange(t *testing.T) {
	start, end, err := bookRange("", "")
	require.NoError(t, err)
	assert.Equal(t, bible.FirstBookID, start)
	assert.Equal(t, bible.LastBookID, end)

	start, end, err = bookRange("마", "요한계시록")
	require.NoError(t, err)
	assert.Equal(t, 40, start)
	assert.Equal(t, 66, end)

	_, _, err = bookRange("없는책", "")
	assert.Error(t, err)
}

func TestParseRange(t *testing.T) {
	r, err := parseRange("창 1:1", "창 2:3")
	require.NoError(t, err)
	assert.Equal(t, "창세기 1:1 - 창세기 2:3", formatRange(r))

	_, err = parseRange("창 2:3", "창 1:1")
	assert.ErrorIs(t, err, bible.ErrRangeInvalid)

	_, err = parseRange("창 1:1", "없는책 1")
	assert.ErrorIs(t, err, bible.ErrInvalidReference)
}

func TestFormatResult(t *testing.T) {
	r := types.SearchResult{Book: 43, Chapter: 3, Verse: 1, Text: "니고데모라<sup>1)</sup> 하는<br/>사람"}
	assert.Equal(t, "요한복음 3:1  니고데모라 하는 사람", formatResult(r, []string{"사람"}))
}

func TestSettingsForm(t *testing.T) {
	config := types.DefaultGlobalConfig()
	f := newSettingsForm(config)
	assert.Equal(t, "30", f.fontSize)

	f.fontSize = "200"
	f.version = "새번역"
	f.padding = "24"
	require.NoError(t, f.apply(config))
	assert.Equal(t, types.MaxFontSize, config.Display.FontSize)
	assert.Equal(t, "새번역", config.DefaultVersion)
	assert.Equal(t, 24, config.Display.PaddingX)

	f.version = "없는역본"
	assert.Error(t, f.apply(config))
}

func TestValidators(t *testing.T) {
	assert.NoError(t, validateColor("#1e293b"))
	assert.Error(t, validateColor("red"))
	assert.NoError(t, validateFontSize("16"))
	assert.Error(t, validateFontSize("15"))
	assert.Error(t, validateFontSize("abc"))
	assert.NoError(t, validatePadding("0"))
	assert.Error(t, validatePadding("-1"))
	assert.NoError(t, validateReference("요 3:16"))
	assert.Error(t, validateReference("요"))
}
