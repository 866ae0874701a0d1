// Package highlight splits verse text into keyword-highlighted segments and
// handles the inline markup found in verse text.
package highlight

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Segment is a run of text that is either plain or a keyword match.
type Segment struct {
	Text    string
	Matched bool
	// KeywordIndex is the position of the matching keyword in the caller's
	// keyword list, or -1 for plain text.
	KeywordIndex int
}

type match struct {
	start, end int
	keyword    int
}

// Highlight finds every case-insensitive occurrence of each keyword in text
// and returns the text as ordered segments. Blank keywords keep their index
// but match nothing. Overlapping matches are resolved first come first
// served: the earliest start wins and, on a tie, the lower keyword index.
// Concatenating the segments' Text always yields text.
func Highlight(text string, keywords []string) []Segment {
	if text == "" {
		return nil
	}

	var matches []match
	for i, kw := range keywords {
		kw = strings.TrimSpace(norm.NFC.String(kw))
		if kw == "" {
			continue
		}
		matches = append(matches, findAll(text, kw, i)...)
	}
	if len(matches) == 0 {
		return []Segment{{Text: text, KeywordIndex: -1}}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].start < matches[b].start
	})

	var segments []Segment
	pos := 0
	for _, m := range matches {
		if m.start < pos {
			continue
		}
		if m.start > pos {
			segments = append(segments, Segment{Text: text[pos:m.start], KeywordIndex: -1})
		}
		segments = append(segments, Segment{Text: text[m.start:m.end], Matched: true, KeywordIndex: m.keyword})
		pos = m.end
	}
	if pos < len(text) {
		segments = append(segments, Segment{Text: text[pos:], KeywordIndex: -1})
	}
	return segments
}

// findAll returns the non-overlapping occurrences of kw in text, scanning left
// to right.
func findAll(text, kw string, index int) []match {
	var out []match
	for i := 0; i < len(text); {
		if end, ok := prefixFold(text[i:], kw); ok {
			out = append(out, match{start: i, end: i + end, keyword: index})
			i += end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return out
}

// prefixFold reports whether s starts with prefix under simple Unicode case
// folding, and the byte length of the matched part of s.
func prefixFold(s, prefix string) (int, bool) {
	n := 0
	for _, pr := range prefix {
		if n >= len(s) {
			return 0, false
		}
		sr, size := utf8.DecodeRuneInString(s[n:])
		if !equalFold(sr, pr) {
			return 0, false
		}
		n += size
	}
	return n, true
}

func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

// Matched returns the matched segments only.
func Matched(segments []Segment) []Segment {
	var out []Segment
	for _, s := range segments {
		if s.Matched {
			out = append(out, s)
		}
	}
	return out
}
