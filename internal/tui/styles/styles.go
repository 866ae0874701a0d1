// Package styles provides Lip Gloss styling for the reader.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/azyu/bibleview/pkg/types"
)

var (
	// Colors
	Primary     = lipgloss.Color("#4F46E5") // Indigo
	Secondary   = lipgloss.Color("#10B981") // Emerald
	Accent      = lipgloss.Color("#F59E0B") // Amber
	Info        = lipgloss.Color("#0EA5E9") // Sky
	Error       = lipgloss.Color("#EF4444") // Red
	Muted       = lipgloss.Color("#6B7280") // Gray
	Surface     = lipgloss.Color("#374151")
	TextPrimary = lipgloss.Color("#F9FAFB")
	TextMuted   = lipgloss.Color("#9CA3AF")

	// KeywordColors colors search keywords by their position in the query.
	KeywordColors = []lipgloss.Color{Accent, Secondary, Info}

	// Header
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Padding(0, 1).
		MarginBottom(1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	// Verse annotations such as footnote markers
	Superscript = lipgloss.NewStyle().
			Foreground(Muted).
			Faint(true)

	// Comparison panel
	ComparePanel = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(Surface).
			MarginTop(1).
			PaddingTop(1)

	CompareLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// Input area
	InputPrompt = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	InputText = lipgloss.NewStyle().
			Foreground(TextPrimary)

	// Status bar
	StatusBar = lipgloss.NewStyle().
			Background(Surface).
			Foreground(TextMuted).
			Padding(0, 1)

	StatusKey = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	StatusValue = lipgloss.NewStyle().
			Foreground(TextPrimary)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	InfoText = lipgloss.NewStyle().
			Foreground(Accent)

	// Help
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(TextMuted)

	// List items
	ListItem = lipgloss.NewStyle().
			PaddingLeft(2)

	SelectedItem = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			PaddingLeft(2)

	Reference = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	Spinner = lipgloss.NewStyle().
		Foreground(Primary)

	MutedText = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// Keyword returns the highlight style for the keyword at index i.
func Keyword(i int) lipgloss.Style {
	if i < 0 {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(KeywordColors[i%len(KeywordColors)])
}

// Verse returns the verse body style for the display settings. Terminals have
// a single font size, so larger sizes widen the horizontal padding instead.
func Verse(d types.DisplayConfig) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(d.FontColor)).
		Background(lipgloss.Color(d.BackgroundColor)).
		Bold(d.FontSize >= 40).
		Padding(1, PaddingColumns(d))
}

// PaddingColumns converts the display padding, given in pixels, to columns.
func PaddingColumns(d types.DisplayConfig) int {
	cols := d.PaddingX / 16
	if d.FontSize > types.DefaultDisplayConfig().FontSize {
		cols += (d.FontSize - types.DefaultDisplayConfig().FontSize) / 10
	}
	return max(cols, 1)
}

// Width returns the available width for content.
func Width(termWidth int) int {
	return termWidth - 4 // Account for padding
}
