package qcommit

import (
	"github.com/sokinpui/qcommit.go/internal/fence"
	"github.com/sokinpui/qcommit.go/internal/format"
)

// Config for using qcommit as a library.
type Config struct {
	// SubjectWidth and BodyWidth default to 50 and 72.
	SubjectWidth int
	BodyWidth    int
	// Use the single code block when the text wraps the message in prose.
	ExtractBlock bool
}

// Normalize turns raw model output into a commit message with the default
// widths.
func Normalize(raw string) string {
	return format.Normalize(raw)
}

// NormalizeWith is Normalize with custom settings.
func NormalizeWith(raw string, config Config) string {
	if config.ExtractBlock {
		if block, ok := fence.ExtractBlock(raw); ok {
			raw = block
		}
	}
	f := format.Formatter{SubjectWidth: config.SubjectWidth, BodyWidth: config.BodyWidth}
	return f.Message(fence.Strip(raw))
}
