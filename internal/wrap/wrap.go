package wrap

import (
	"strings"

	"github.com/rivo/uniseg"
)

// DefaultWidth is the conventional column limit for commit message bodies.
const DefaultWidth = 72

// Text re-flows text so that no line is wider than width characters.
// Paragraphs are separated by blank lines and keep their order; line breaks
// inside a paragraph are discarded and the words are packed again.
func Text(text string, width int) string {
	if width < 1 {
		width = 1
	}

	paragraphs := Paragraphs(text)
	wrapped := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		wrapped = append(wrapped, strings.Join(Lines(p, width), "\n"))
	}
	return strings.Join(wrapped, "\n\n")
}

// Paragraphs splits text on blank lines and joins the lines of each
// paragraph with single spaces. Whitespace-only runs produce no paragraph.
func Paragraphs(text string) []string {
	var paragraphs []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = current[:0]
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return paragraphs
}

// Lines greedily packs the words of paragraph into lines of at most width
// characters. A word wider than width is placed on a line of its own and
// is never split.
func Lines(paragraph string, width int) []string {
	var lines []string
	var line strings.Builder
	lineLen := 0

	for _, word := range strings.Fields(paragraph) {
		wordLen := Len(word)
		switch {
		case lineLen == 0:
			line.WriteString(word)
			lineLen = wordLen
		case lineLen+1+wordLen <= width:
			line.WriteByte(' ')
			line.WriteString(word)
			lineLen += 1 + wordLen
		default:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
			lineLen = wordLen
		}
	}

	if lineLen > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// Len counts user-perceived characters, so a combining sequence or an
// emoji with modifiers counts once.
func Len(s string) int {
	return uniseg.GraphemeClusterCount(s)
}
