package generator

import (
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Instructions precede the diff in every prompt.
const Instructions = `Generate a git commit message for the following changes. Follow these rules strictly:
1. First line is the subject: max 50 characters, imperative mood, no period at end
2. Second line must be blank
3. Body paragraphs start on line 3: wrap all lines at 72 characters
4. The body should explain WHAT changed and WHY (not how)

Output only the commit message, nothing else:

`

// TruncatedMarker is appended to a diff cut to the token budget.
const TruncatedMarker = "\n[diff truncated]\n"

const (
	encodingName = "cl100k_base"
	// bytesPerToken approximates the budget when no tokenizer is available.
	bytesPerToken = 4
)

// loadEncoding is replaced in tests to avoid fetching BPE ranks.
var loadEncoding = func() (*tiktoken.Tiktoken, error) {
	return tiktoken.GetEncoding(encodingName)
}

// Prompt joins the instructions and the diff. With maxTokens > 0 the diff
// is cut to that many tokens; truncated reports whether that happened.
func Prompt(diff string, maxTokens int) (prompt string, truncated bool) {
	if maxTokens > 0 {
		diff, truncated = CapTokens(diff, maxTokens)
	}
	return Instructions + diff, truncated
}

// CapTokens cuts text to at most maxTokens tokens. Without a tokenizer it
// falls back to an estimate by bytes, cut at a line boundary.
func CapTokens(text string, maxTokens int) (string, bool) {
	if maxTokens <= 0 {
		return text, false
	}

	enc, err := loadEncoding()
	if err != nil {
		return capBytes(text, maxTokens*bytesPerToken)
	}

	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text, false
	}
	cut := strings.ToValidUTF8(enc.Decode(tokens[:maxTokens]), "")
	return cut + TruncatedMarker, true
}

func capBytes(text string, maxBytes int) (string, bool) {
	if len(text) <= maxBytes {
		return text, false
	}

	cut := text[:maxBytes]
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		cut = cut[:i+1]
	}
	for !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return strings.TrimRight(cut, "\n") + TruncatedMarker, true
}
