package fence

import "strings"

// Marker is the markdown code fence delimiter.
const Marker = "```"

// maxTagLen bounds the first line that is still taken for a language tag.
const maxTagLen = 20

// Strip removes a markdown code fence enclosing raw, along with the
// language tag line that may follow the opening marker. Text that does not
// start with a fence is only trimmed.
func Strip(raw string) string {
	text := strings.TrimSpace(raw)

	rest, ok := strings.CutPrefix(text, Marker)
	if !ok {
		return text
	}
	rest = strings.TrimSuffix(rest, Marker)

	switch {
	case strings.HasPrefix(rest, "\n"):
		rest = rest[1:]
	case strings.HasPrefix(rest, "\r\n"):
		rest = rest[2:]
	default:
		if i := strings.IndexByte(rest, '\n'); i >= 0 && isLanguageTag(rest[:i]) {
			rest = rest[i+1:]
		}
	}

	return strings.TrimSpace(rest)
}

// isLanguageTag reports whether line looks like the info string of a fence,
// e.g. "text" in "```text".
func isLanguageTag(line string) bool {
	return !strings.Contains(line, " ") && len(line) < maxTagLen
}
