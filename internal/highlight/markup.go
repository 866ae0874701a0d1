package highlight

import (
	"regexp"
	"strings"
)

var (
	supPattern    = regexp.MustCompile(`(?is)<sup>.*?</sup>`)
	breakPattern  = regexp.MustCompile(`(?i)<br\s*/?>`)
	markupPattern = regexp.MustCompile(`(?is)<sup>(.*?)</sup>|<br\s*/?>`)
)

// StripMarkup removes superscript annotations and turns line breaks into a
// single space, then trims the result.
func StripMarkup(text string) string {
	text = supPattern.ReplaceAllString(text, "")
	text = breakPattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// MarkupKind identifies a piece of parsed verse text.
type MarkupKind int

const (
	MarkupText MarkupKind = iota
	MarkupSup
	MarkupBreak
)

// Markup is one piece of verse text. Only superscripts and line breaks are
// recognized; any other tag is kept as literal text.
type Markup struct {
	Kind MarkupKind
	Text string
}

// ParseMarkup splits verse text into plain text, superscript and line break
// pieces in order.
func ParseMarkup(text string) []Markup {
	var out []Markup
	pos := 0
	for _, loc := range markupPattern.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > pos {
			out = append(out, Markup{Kind: MarkupText, Text: text[pos:loc[0]]})
		}
		if loc[2] >= 0 {
			out = append(out, Markup{Kind: MarkupSup, Text: text[loc[2]:loc[3]]})
		} else {
			out = append(out, Markup{Kind: MarkupBreak})
		}
		pos = loc[1]
	}
	if pos < len(text) {
		out = append(out, Markup{Kind: MarkupText, Text: text[pos:]})
	}
	return out
}
