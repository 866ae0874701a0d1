package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestVersePositionOrdinal(t *testing.T) {
	tests := []struct {
		name string
		pos  VersePosition
		want int
	}{
		{
			name: "genesis 1:1",
			pos:  VersePosition{BookID: 1, Chapter: 1, Verse: 1},
			want: 1_001_001,
		},
		{
			name: "john 3:16",
			pos:  VersePosition{BookID: 43, Chapter: 3, Verse: 16},
			want: 43_003_016,
		},
		{
			name: "psalm 119:176",
			pos:  VersePosition{BookID: 19, Chapter: 119, Verse: 176},
			want: 19_119_176,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pos.Ordinal())
		})
	}

	t.Run("orders across book boundaries", func(t *testing.T) {
		lastOfMalachi := VersePosition{BookID: 39, Chapter: 4, Verse: 6}
		firstOfMatthew := VersePosition{BookID: 40, Chapter: 1, Verse: 1}
		assert.Less(t, lastOfMalachi.Ordinal(), firstOfMatthew.Ordinal())
	})
}

func TestScriptureRangeContains(t *testing.T) {
	r := ScriptureRange{
		Start: VersePosition{BookID: 43, Chapter: 3, Verse: 1},
		End:   VersePosition{BookID: 43, Chapter: 3, Verse: 21},
	}

	assert.True(t, r.Contains(VersePosition{BookID: 43, Chapter: 3, Verse: 1}))
	assert.True(t, r.Contains(VersePosition{BookID: 43, Chapter: 3, Verse: 16}))
	assert.True(t, r.Contains(VersePosition{BookID: 43, Chapter: 3, Verse: 21}))
	assert.False(t, r.Contains(VersePosition{BookID: 43, Chapter: 3, Verse: 22}))
	assert.False(t, r.Contains(VersePosition{BookID: 42, Chapter: 3, Verse: 16}))
}

func TestClampFontSize(t *testing.T) {
	assert.Equal(t, MinFontSize, ClampFontSize(2))
	assert.Equal(t, 30, ClampFontSize(30))
	assert.Equal(t, MaxFontSize, ClampFontSize(400))
}

func TestDefaultGlobalConfig(t *testing.T) {
	cfg := DefaultGlobalConfig()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "개역한글", cfg.DefaultVersion)
	assert.Equal(t, 100, cfg.Search.PageSize)
	assert.Equal(t, 5*time.Second, cfg.Lookup.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Nil(t, cfg.Passage)

	// Display defaults
	assert.Equal(t, "#f8fafc", cfg.Display.BackgroundColor)
	assert.Equal(t, "serif", cfg.Display.FontFamily)
	assert.Equal(t, 30, cfg.Display.FontSize)
	assert.Equal(t, "#1e293b", cfg.Display.FontColor)
	assert.Equal(t, 48, cfg.Display.PaddingX)
}

func TestGlobalConfigYAML(t *testing.T) {
	cfg := DefaultGlobalConfig()
	cfg.Passage = &ScriptureRange{
		Start: VersePosition{BookID: 43, Chapter: 3, Verse: 16},
		End:   VersePosition{BookID: 43, Chapter: 3, Verse: 21},
	}

	data, err := yaml.Marshal(cfg)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "default_version: 개역한글")
	assert.Contains(t, string(data), "book_id: 43")

	var decoded GlobalConfig
	assert.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, *cfg.Passage, *decoded.Passage)
	assert.Equal(t, cfg.Lookup.Timeout, decoded.Lookup.Timeout)
}
