// Package types provides shared data models for bibleview.
package types

import (
	"fmt"
	"time"
)

// VersePosition identifies a single verse by book, chapter and verse number.
type VersePosition struct {
	BookID  int `yaml:"book_id" json:"book_id"`
	Chapter int `yaml:"chapter" json:"chapter"`
	Verse   int `yaml:"verse" json:"verse"`
}

// Ordinal returns an absolute position usable for ordering verses across books.
func (p VersePosition) Ordinal() int {
	return p.BookID*1_000_000 + p.Chapter*1_000 + p.Verse
}

// IsZero reports whether the position is unset.
func (p VersePosition) IsZero() bool {
	return p.BookID == 0 && p.Chapter == 0 && p.Verse == 0
}

func (p VersePosition) String() string {
	return fmt.Sprintf("%d %d:%d", p.BookID, p.Chapter, p.Verse)
}

// ScriptureRange is a reading passage bookmark persisted across sessions.
type ScriptureRange struct {
	Start VersePosition `yaml:"start" json:"start"`
	End   VersePosition `yaml:"end" json:"end"`
}

// Contains reports whether pos lies inside the range, inclusive.
func (r ScriptureRange) Contains(pos VersePosition) bool {
	o := pos.Ordinal()
	return o >= r.Start.Ordinal() && o <= r.End.Ordinal()
}

// VerseRecord is one row of a version's verse table.
type VerseRecord struct {
	Book    int    `db:"book" json:"book"`
	Chapter int    `db:"chapter" json:"chapter"`
	Verse   int    `db:"verse" json:"verse"`
	Text    string `db:"text" json:"text"`
}

// Position returns the record's verse position.
func (r VerseRecord) Position() VersePosition {
	return VersePosition{BookID: r.Book, Chapter: r.Chapter, Verse: r.Verse}
}

// ChapterVerse is a verse within an already known chapter.
type ChapterVerse struct {
	Verse int    `db:"verse" json:"verse"`
	Text  string `db:"text" json:"text"`
}

// SearchResult is a verse matched by a keyword search.
type SearchResult struct {
	Book    int    `db:"book" json:"book"`
	Chapter int    `db:"chapter" json:"chapter"`
	Verse   int    `db:"verse" json:"verse"`
	Text    string `db:"text" json:"text"`
}

// Position returns the result's verse position.
func (r SearchResult) Position() VersePosition {
	return VersePosition{BookID: r.Book, Chapter: r.Chapter, Verse: r.Verse}
}

// GlobalConfig is the user-wide configuration at ~/.config/bibleview/config.yaml.
type GlobalConfig struct {
	Version        int             `yaml:"version"`
	DataDir        string          `yaml:"data_dir"`
	DefaultVersion string          `yaml:"default_version"`
	Display        DisplayConfig   `yaml:"display"`
	Passage        *ScriptureRange `yaml:"passage,omitempty"`
	Search         SearchConfig    `yaml:"search"`
	Lookup         LookupConfig    `yaml:"lookup"`
	Logging        LoggingConfig   `yaml:"logging"`
}

// DisplayConfig holds the reader's display preferences.
type DisplayConfig struct {
	BackgroundColor string `yaml:"background_color"`
	FontFamily      string `yaml:"font_family"`
	FontSize        int    `yaml:"font_size"`
	FontColor       string `yaml:"font_color"`
	PaddingX        int    `yaml:"padding_x"`
}

// SearchConfig controls search paging.
type SearchConfig struct {
	PageSize int `yaml:"page_size"`
}

// LookupConfig bounds a single data source call.
type LookupConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig specifies logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// Font size bounds and step used by the reader.
const (
	MinFontSize  = 16
	MaxFontSize  = 150
	FontSizeStep = 2
)

// ClampFontSize keeps a font size inside the supported bounds.
func ClampFontSize(size int) int {
	if size < MinFontSize {
		return MinFontSize
	}
	if size > MaxFontSize {
		return MaxFontSize
	}
	return size
}

// DefaultDisplayConfig returns the display settings of a fresh install.
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		BackgroundColor: "#f8fafc",
		FontFamily:      "serif",
		FontSize:        30,
		FontColor:       "#1e293b",
		PaddingX:        48,
	}
}

// DefaultGlobalConfig returns a new GlobalConfig with sensible defaults.
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Version:        1,
		DataDir:        "~/.local/share/bibleview",
		DefaultVersion: "개역한글",
		Display:        DefaultDisplayConfig(),
		Search: SearchConfig{
			PageSize: 100,
		},
		Lookup: LookupConfig{
			Timeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
