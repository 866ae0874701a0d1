package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azyu/bibleview/internal/bible"
	"github.com/azyu/bibleview/internal/search"
	"github.com/azyu/bibleview/internal/storage/storagetest"
	"github.com/azyu/bibleview/pkg/types"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))
}

// =============================================================================
// ConfigManager
// =============================================================================

func TestLoadGlobalConfig(t *testing.T) {
	t.Run("defaults when file is missing", func(t *testing.T) {
		cm := NewConfigManagerAt(t.TempDir())
		config, err := cm.LoadGlobalConfig()
		require.NoError(t, err)

		assert.Equal(t, "개역한글", config.DefaultVersion)
		assert.Equal(t, 30, config.Display.FontSize)
		assert.Equal(t, 100, config.Search.PageSize)
		assert.False(t, strings.HasPrefix(config.DataDir, "~"), "home is expanded")
	})

	t.Run("fills missing fields and clamps font size", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "default_version: 새번역\ndisplay:\n  font_size: 400\nlookup:\n  timeout: 2s\n")

		config, err := NewConfigManagerAt(dir).LoadGlobalConfig()
		require.NoError(t, err)
		assert.Equal(t, "새번역", config.DefaultVersion)
		assert.Equal(t, types.MaxFontSize, config.Display.FontSize)
		assert.Equal(t, "#f8fafc", config.Display.BackgroundColor)
		assert.Equal(t, 2*time.Second, config.Lookup.Timeout)
	})

	t.Run("rejects unknown version", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "default_version: KJV1611\n")

		_, err := NewConfigManagerAt(dir).LoadGlobalConfig()
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.ErrorIs(t, err, bible.ErrUnknownVersion)
	})

	t.Run("rejects invalid saved passage", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "passage:\n  start: {book_id: 43, chapter: 3, verse: 16}\n  end: {book_id: 43, chapter: 3, verse: 1}\n")

		_, err := NewConfigManagerAt(dir).LoadGlobalConfig()
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.True(t, errors.Is(err, bible.ErrRangeInvalid))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "display: [\n")

		_, err := NewConfigManagerAt(dir).LoadGlobalConfig()
		assert.Error(t, err)
	})
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvVersion, "NKJV")
	t.Setenv(EnvLogLevel, "debug")

	cm := NewConfigManagerAt(dir)
	config, err := cm.LoadGlobalConfig()
	require.NoError(t, err)
	assert.Equal(t, "NKJV", config.DefaultVersion)
	assert.Equal(t, "debug", config.Logging.Level)

	v, err := cm.DefaultVersion()
	require.NoError(t, err)
	assert.Equal(t, bible.NKJV, v)

	require.NoError(t, cm.SetDisplay(types.DisplayConfig{FontSize: 40}))

	data, err := os.ReadFile(cm.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "default_version: 개역한글", "overrides are not saved")
	assert.Contains(t, string(data), "font_size: 40")
}

func TestSetPassage(t *testing.T) {
	dir := t.TempDir()
	cm := NewConfigManagerAt(dir)

	bad := &types.ScriptureRange{
		Start: types.VersePosition{BookID: 43, Chapter: 30, Verse: 1},
		End:   types.VersePosition{BookID: 43, Chapter: 3, Verse: 1},
	}
	err := cm.SetPassage(bad)
	assert.True(t, errors.Is(err, bible.ErrRangeInvalid))
	assert.NoFileExists(t, cm.Path())

	good := &types.ScriptureRange{
		Start: types.VersePosition{BookID: 43, Chapter: 3, Verse: 16},
		End:   types.VersePosition{BookID: 43, Chapter: 3, Verse: 21},
	}
	require.NoError(t, cm.SetPassage(good))

	reloaded, err := NewConfigManagerAt(dir).LoadGlobalConfig()
	require.NoError(t, err)
	require.NotNil(t, reloaded.Passage)
	assert.Equal(t, *good, *reloaded.Passage)

	require.NoError(t, cm.SetPassage(nil))
	reloaded, err = NewConfigManagerAt(dir).LoadGlobalConfig()
	require.NoError(t, err)
	assert.Nil(t, reloaded.Passage)
}

func TestLoadEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("sets variables", func(t *testing.T) {
		const key = "BIBLEVIEW_TEST_LOAD_ENV"
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte(key+"=/srv/bibles\n"), 0644))
		t.Cleanup(func() { os.Unsetenv(key) })

		require.NoError(t, LoadEnv(path))
		assert.Equal(t, "/srv/bibles", os.Getenv(key))
	})
}

// =============================================================================
// Logging
// =============================================================================

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, types.LoggingConfig{Level: "warn"})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "reference", "요한복음 3:16")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, "요한복음 3:16")

	_, err = NewLogger(&buf, types.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestOpenLogFile(t *testing.T) {
	dir := t.TempDir()
	f, err := OpenLogFile(types.LoggingConfig{}, dir)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, filepath.Join(dir, LogFileName), f.Name())
}

// =============================================================================
// App
// =============================================================================

func TestApp(t *testing.T) {
	fixture := storagetest.NewStore(t)
	configDir := t.TempDir()
	writeConfig(t, configDir, "data_dir: "+fixture.DataDir()+"\n")

	a, err := NewWithConfig(NewConfigManagerAt(configDir))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	ctx, cancel := a.WithTimeout(context.Background())
	defer cancel()

	t.Run("reads verses", func(t *testing.T) {
		v, err := a.Session.Open(ctx, types.VersePosition{BookID: 43, Chapter: 3, Verse: 16})
		require.NoError(t, err)
		assert.Contains(t, v.Text, "사랑하사")
	})

	t.Run("searches", func(t *testing.T) {
		results, err := a.Search.Search(ctx, search.Query{
			Version:  a.Session.Version(),
			Keywords: []string{"하나님", "사랑"},
		})
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("saves passage", func(t *testing.T) {
		r := &types.ScriptureRange{
			Start: types.VersePosition{BookID: 43, Chapter: 3, Verse: 16},
			End:   types.VersePosition{BookID: 43, Chapter: 3, Verse: 18},
		}
		require.NoError(t, a.SavePassage(ctx, r))
		assert.Equal(t, r, a.Session.State().Passage)
		assert.Equal(t, r, a.Settings().Passage)
	})

	t.Run("rejects a verse past the end of its chapter", func(t *testing.T) {
		before := a.Session.State().Passage
		r := &types.ScriptureRange{
			Start: types.VersePosition{BookID: 43, Chapter: 3, Verse: 16},
			End:   types.VersePosition{BookID: 43, Chapter: 3, Verse: 99},
		}

		err := a.SavePassage(ctx, r)
		require.Error(t, err)
		assert.True(t, errors.Is(err, bible.ErrRangeInvalid))

		var rerr bible.RangeErrors
		require.True(t, errors.As(err, &rerr))
		msg, ok := rerr.Field("end.verse")
		assert.True(t, ok)
		assert.Contains(t, msg, "36절")

		assert.Equal(t, before, a.Session.State().Passage)
		assert.Equal(t, before, a.Settings().Passage)
	})

	t.Run("clears passage", func(t *testing.T) {
		require.NoError(t, a.SavePassage(ctx, nil))
		assert.Nil(t, a.Session.State().Passage)
		assert.Nil(t, a.Settings().Passage)
	})

	t.Run("saves display with clamped font size", func(t *testing.T) {
		d := a.Settings().Display
		d.FontSize = 4
		require.NoError(t, a.SaveDisplay(d))
		assert.Equal(t, types.MinFontSize, a.Settings().Display.FontSize)
	})

	t.Run("logs to config dir", func(t *testing.T) {
		info, err := os.Stat(filepath.Join(configDir, LogFileName))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	})
}

func TestConcurrentSettingsAccess(t *testing.T) {
	fixture := storagetest.NewStore(t)
	configDir := t.TempDir()
	writeConfig(t, configDir, "data_dir: "+fixture.DataDir()+"\n")

	a, err := NewWithConfig(NewConfigManagerAt(configDir))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	// The reader saves display settings and reads the lookup timeout from
	// separate command goroutines. Run with -race.
	const rounds = 50
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		d := a.Settings().Display
		for i := 0; i < rounds; i++ {
			d.FontSize = types.MinFontSize + 2*(i%10)
			assert.NoError(t, a.SaveDisplay(d))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			ctx, cancel := a.WithTimeout(context.Background())
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			config := a.Settings()
			config.Display.FontSize = 0
		}
	}()
	wg.Wait()

	assert.Equal(t, types.MinFontSize+2*((rounds-1)%10), a.Settings().Display.FontSize)
}

func TestSettingsReturnsCopy(t *testing.T) {
	cm := NewConfigManagerAt(t.TempDir())
	config, err := cm.LoadGlobalConfig()
	require.NoError(t, err)

	config.Display.FontSize = 99
	again, err := cm.LoadGlobalConfig()
	require.NoError(t, err)
	assert.Equal(t, 30, again.Display.FontSize)
}
