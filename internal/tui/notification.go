package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/azyu/bibleview/internal/tui/styles"
)

// toastDuration is how long a toast stays on screen.
const toastDuration = 2 * time.Second

type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// Toast is a short message drawn over the top right corner of the reader.
type Toast struct {
	Message string
	Level   ToastLevel
	Visible bool

	// seq ties a clear message to the toast that scheduled it, so an old
	// timer cannot hide a newer toast.
	seq int
}

type clearToastMsg struct {
	seq int
}

var toastBaseStyle = lipgloss.NewStyle().
	Padding(0, 1).
	BorderStyle(lipgloss.RoundedBorder())

func toastStyle(level ToastLevel) lipgloss.Style {
	color := styles.Info
	switch level {
	case ToastSuccess:
		color = styles.Secondary
	case ToastWarning:
		color = styles.Accent
	case ToastError:
		color = styles.Error
	}
	return toastBaseStyle.BorderForeground(color).Foreground(color)
}

func (t Toast) icon() string {
	switch t.Level {
	case ToastSuccess:
		return "✓"
	case ToastError:
		return "✗"
	case ToastWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}

// Show replaces the toast and schedules its removal.
func (t *Toast) Show(msg string, level ToastLevel) tea.Cmd {
	t.seq++
	t.Message = msg
	t.Level = level
	t.Visible = true

	seq := t.seq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{seq: seq}
	})
}

func (t *Toast) Update(msg tea.Msg) {
	if m, ok := msg.(clearToastMsg); ok && m.seq == t.seq {
		t.Visible = false
		t.Message = ""
	}
}

func (t Toast) View(maxWidth int) string {
	if !t.Visible || t.Message == "" {
		return ""
	}

	msg := t.Message
	if limit := maxWidth - 10; maxWidth > 0 && ansi.PrintableRuneWidth(msg) > limit {
		msg = truncate.StringWithTail(msg, uint(max(limit, 1)), "...")
	}
	return toastStyle(t.Level).Render(t.icon() + " " + msg)
}

func getLines(s string) (lines []string, widest int) {
	lines = strings.Split(s, "\n")
	for _, l := range lines {
		if w := ansi.PrintableRuneWidth(l); widest < w {
			widest = w
		}
	}
	return lines, widest
}

// placeOverlay draws fg over bg with its top left corner at column x, row y.
func placeOverlay(x, y int, fg, bg string) string {
	fgLines, fgWidth := getLines(fg)
	bgLines, bgWidth := getLines(bg)
	bgHeight := len(bgLines)
	fgHeight := len(fgLines)

	if fgWidth >= bgWidth && fgHeight >= bgHeight {
		return fg
	}

	x = min(max(x, 0), max(bgWidth-fgWidth, 0))
	y = min(max(y, 0), max(bgHeight-fgHeight, 0))

	var b strings.Builder
	for i, bgLine := range bgLines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i < y || i >= y+fgHeight {
			b.WriteString(bgLine)
			continue
		}

		pos := 0
		if x > 0 {
			left := truncate.String(bgLine, uint(x))
			pos = ansi.PrintableRuneWidth(left)
			b.WriteString(left)
			if pos < x {
				b.WriteString(strings.Repeat(" ", x-pos))
				pos = x
			}
		}

		fgLine := fgLines[i-y]
		b.WriteString(fgLine)
		pos += ansi.PrintableRuneWidth(fgLine)

		if pos < ansi.PrintableRuneWidth(bgLine) {
			b.WriteString(skipColumns(bgLine, pos))
		}
	}

	return b.String()
}

// skipColumns drops the first n display columns of s. Wide runes such as
// Hangul count as two columns.
func skipColumns(s string, n int) string {
	width := 0
	for i, r := range s {
		if width >= n {
			return s[i:]
		}
		width += ansi.PrintableRuneWidth(string(r))
	}
	return ""
}

func renderToastTopRight(toast, background string, padding int) string {
	if toast == "" {
		return background
	}
	x := lipgloss.Width(background) - lipgloss.Width(toast) - padding
	return placeOverlay(x, padding, toast, background)
}
