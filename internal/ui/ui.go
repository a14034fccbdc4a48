package ui

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	HintColor    = color.New(color.FgHiBlack)
)

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Hint(format string, a ...interface{}) {
	HintColor.Fprintf(os.Stderr, "  "+format+"\n", a...)
}

// Size formats a byte count for humans, e.g. "12 kB".
func Size(n int) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// --- Summaries ---

// PrintFailure reports err and any hints attached to it.
func PrintFailure(err error, hints []string) {
	Error("Error: %v", err)
	for _, h := range hints {
		Hint("%s", h)
	}
}
