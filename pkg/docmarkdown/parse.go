// Package docmarkdown converts between a small Markdown subset (headings,
// bold, italic, links and bullet lists) and Google Docs structured content.
package docmarkdown

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxHeading is the deepest heading level recognised
const MaxHeading = 3

// Style is the inline formatting of a span
type Style struct {
	Bold   bool
	Italic bool
	Link   string
}

// Plain reports whether the style carries no formatting
func (s Style) Plain() bool {
	return !s.Bold && !s.Italic && s.Link == ""
}

// Span is a run of text sharing one style
type Span struct {
	Text  string
	Style Style
}

// Block is one paragraph
type Block struct {
	// Heading is 1..MaxHeading, or 0 for body text
	Heading int
	Bullet  bool
	Spans   []Span
}

// Text returns the block's plain text
func (b Block) Text() string {
	var sb strings.Builder
	for _, span := range b.Spans {
		sb.WriteString(span.Text)
	}
	return sb.String()
}

// Parse splits markdown into paragraphs with inline styles. Lines are kept
// one-to-one with paragraphs, including blank ones.
func Parse(markdown string) []Block {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")
	lines := strings.Split(markdown, "\n")

	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, parseLine(line))
	}
	return blocks
}

func parseLine(line string) Block {
	var block Block

	if level, rest, ok := headingPrefix(line); ok {
		block.Heading = level
		line = rest
	} else if rest, ok := bulletPrefix(line); ok {
		block.Bullet = true
		line = rest
	}

	block.Spans = mergeSpans(parseInline(line, Style{}))
	return block
}

func headingPrefix(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > MaxHeading || level >= len(line) || line[level] != ' ' {
		return 0, line, false
	}
	return level, strings.TrimSpace(line[level+1:]), true
}

func bulletPrefix(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "+ ") {
		return trimmed[2:], true
	}
	return line, false
}

// parseInline handles **bold**, _italic_, *italic*, [text](url) and backslash escapes
func parseInline(s string, style Style) []Span {
	var spans []Span
	var buf strings.Builder

	flush := func() {
		if buf.Len() > 0 {
			spans = append(spans, Span{Text: buf.String(), Style: style})
			buf.Reset()
		}
	}

	for i := 0; i < len(s); {
		switch {
		case s[i] == '\\' && i+1 < len(s) && isMarker(s[i+1]):
			buf.WriteByte(s[i+1])
			i += 2
			continue

		case strings.HasPrefix(s[i:], "**"):
			if end := closingBold(s, i); end > 0 {
				flush()
				inner := style
				inner.Bold = true
				spans = append(spans, parseInline(s[i+2:end], inner)...)
				i = end + 2
				continue
			}

		case s[i] == '_' || s[i] == '*':
			if end := closingEmphasis(s, i); end > 0 {
				flush()
				inner := style
				inner.Italic = true
				spans = append(spans, parseInline(s[i+1:end], inner)...)
				i = end + 1
				continue
			}

		case s[i] == '[':
			if text, url, next, ok := linkAt(s, i); ok {
				flush()
				inner := style
				inner.Link = url
				spans = append(spans, parseInline(text, inner)...)
				i = next
				continue
			}
		}

		_, size := utf8.DecodeRuneInString(s[i:])
		buf.WriteString(s[i : i+size])
		i += size
	}

	flush()
	return spans
}

func isMarker(c byte) bool {
	return strings.IndexByte(`\*_[]()#`, c) >= 0
}

// closingBold finds the index of the "**" closing the bold run opened at i,
// or -1. Both delimiters must hug the text: "a ** b" stays literal.
func closingBold(s string, i int) int {
	if !opens(s, i, 2) {
		return -1
	}
	for j := i + 2; j+1 < len(s); j++ {
		if s[j] == '\\' {
			j++
			continue
		}
		if s[j] == '*' && s[j+1] == '*' && j > i+2 && closes(s, j, 2) {
			return j
		}
	}
	return -1
}

// closingEmphasis finds the index of the marker closing the emphasis opened at
// i, or -1. Markers surrounded by spaces (2 * 3) or inside words (snake_case,
// 5*3*2) do not open or close emphasis.
func closingEmphasis(s string, i int) int {
	marker := s[i]
	if !opens(s, i, 1) {
		return -1
	}
	for j := i + 1; j < len(s); j++ {
		if s[j] == '\\' {
			j++
			continue
		}
		if s[j] != marker {
			continue
		}
		if marker == '*' && j+1 < len(s) && s[j+1] == '*' {
			// part of a bold marker
			j++
			continue
		}
		if j == i+1 || !closes(s, j, 1) {
			continue
		}
		return j
	}
	return -1
}

// opens reports whether the n-byte delimiter at i can open a styled run: it is
// followed by non-space text and not preceded by a word character
func opens(s string, i, n int) bool {
	if i+n >= len(s) || isSpaceByte(s[i+n]) {
		return false
	}
	return i == 0 || !isWordByte(s[i-1])
}

// closes reports whether the n-byte delimiter at j can close a styled run: it
// follows non-space text and is not followed by a word character
func closes(s string, j, n int) bool {
	if isSpaceByte(s[j-1]) {
		return false
	}
	return j+n >= len(s) || !isWordByte(s[j+n])
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t'
}

func isWordByte(c byte) bool {
	r := rune(c)
	return c < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func linkAt(s string, i int) (text, url string, next int, ok bool) {
	closeText := strings.Index(s[i:], "](")
	if closeText < 0 {
		return "", "", 0, false
	}
	closeText += i
	closeURL := strings.IndexByte(s[closeText+2:], ')')
	if closeURL < 0 {
		return "", "", 0, false
	}
	closeURL += closeText + 2

	text = s[i+1 : closeText]
	url = strings.TrimSpace(s[closeText+2 : closeURL])
	if text == "" || url == "" {
		return "", "", 0, false
	}
	return text, url, closeURL + 1, true
}

// mergeSpans joins adjacent spans with the same style
func mergeSpans(spans []Span) []Span {
	merged := make([]Span, 0, len(spans))
	for _, span := range spans {
		if span.Text == "" {
			continue
		}
		if n := len(merged); n > 0 && merged[n-1].Style == span.Style {
			merged[n-1].Text += span.Text
			continue
		}
		merged = append(merged, span)
	}
	return merged
}
