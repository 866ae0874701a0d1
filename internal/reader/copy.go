package reader

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/azyu/bibleview/internal/highlight"
)

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

// WriteAll implements Clipboard.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Available reports whether a system clipboard utility was found.
func (SystemClipboard) Available() bool {
	return !clipboard.Unsupported
}

// CopyText formats the open verse for copying:
//
//	[요한복음 3:16 (개역한글)] 하나님이 세상을 ...
//
// With the comparison panel open and the verse present in the compared
// version, a second line is added for it.
func (s *Session) CopyText() (string, bool) {
	st := s.State()
	if st.Current == nil {
		return "", false
	}

	ref := st.Current.Reference()
	text := fmt.Sprintf("[%s (%s)] %s", ref, st.Version, st.Current.PlainText())
	if st.CompareOpen && st.ComparedText != "" {
		text += fmt.Sprintf("\n[%s (%s)] %s", ref, st.ComparedVersion, highlight.StripMarkup(st.ComparedText))
	}
	return text, true
}

// CopyTo writes CopyText to cb and returns the copied text.
func (s *Session) CopyTo(cb Clipboard) (string, error) {
	text, ok := s.CopyText()
	if !ok {
		return "", ErrNoVerse
	}
	if err := cb.WriteAll(text); err != nil {
		return "", fmt.Errorf("failed to copy verse: %w", err)
	}
	return text, nil
}
