package format

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/sokinpui/qcommit.go/internal/fence"
	"github.com/sokinpui/qcommit.go/internal/wrap"
)

// SubjectWidth is the maximum length of the subject line.
const SubjectWidth = 50

// Formatter reshapes free text into a commit message layout.
type Formatter struct {
	// SubjectWidth truncates the first line. Zero means SubjectWidth.
	SubjectWidth int
	// BodyWidth wraps the body. Zero means wrap.DefaultWidth.
	BodyWidth int
}

// Default uses the conventional 50/72 limits.
var Default = Formatter{SubjectWidth: SubjectWidth, BodyWidth: wrap.DefaultWidth}

// Message formats text with the default limits.
func Message(text string) string {
	return Default.Message(text)
}

// Normalize strips a markdown fence from raw generator output and formats
// what is left.
func Normalize(raw string) string {
	return Default.Message(fence.Strip(raw))
}

// Message returns text as a subject line, a blank line and a wrapped body.
// The subject is cut to the subject width without regard to word
// boundaries. Blank lines before the subject are skipped and blank lines
// between the subject and the body are collapsed. Blank text yields "".
func (f Formatter) Message(text string) string {
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return ""
	}

	subject := truncate(lines[0], f.subjectWidth())
	subject = strings.TrimRightFunc(subject, unicode.IsSpace)

	if len(lines) == 1 {
		return subject
	}

	start := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			start = i
			break
		}
	}
	if start < 0 {
		return subject
	}

	body := wrap.Text(strings.Join(lines[start:], "\n"), f.bodyWidth())
	return subject + "\n\n" + body
}

// Subject returns the first line of a formatted message.
func Subject(message string) string {
	subject, _, _ := strings.Cut(message, "\n")
	return subject
}

func (f Formatter) subjectWidth() int {
	if f.SubjectWidth > 0 {
		return f.SubjectWidth
	}
	return SubjectWidth
}

func (f Formatter) bodyWidth() int {
	if f.BodyWidth > 0 {
		return f.BodyWidth
	}
	return wrap.DefaultWidth
}

// truncate keeps the first n characters of s.
func truncate(s string, n int) string {
	if wrap.Len(s) <= n {
		return s
	}

	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for i := 0; i < n && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	return b.String()
}
