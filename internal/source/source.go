package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// Provider reads raw model output from stdin when it is piped, otherwise
// from the clipboard.
type Provider struct {
	Stdin *os.File
	// ReadClipboard and WriteClipboard default to the system clipboard.
	ReadClipboard  func() (string, error)
	WriteClipboard func(string) error
}

// New returns a Provider for the process stdin and the system clipboard.
func New() *Provider {
	return &Provider{
		Stdin:          os.Stdin,
		ReadClipboard:  clipboard.ReadAll,
		WriteClipboard: clipboard.WriteAll,
	}
}

// IsPiped reports whether stdin is a pipe or file rather than a terminal.
func (p *Provider) IsPiped() bool {
	if p.Stdin == nil {
		return false
	}
	stat, err := p.Stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}

// GetContent returns the raw text. Empty content is not an error.
func (p *Provider) GetContent() (string, error) {
	if p.IsPiped() {
		content, err := io.ReadAll(p.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(content), nil
	}

	if p.ReadClipboard == nil || clipboard.Unsupported {
		return "", fmt.Errorf("stdin is a terminal and no clipboard is available")
	}
	content, err := p.ReadClipboard()
	if err != nil {
		return "", fmt.Errorf("failed to read from clipboard: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return "", nil
	}
	return content, nil
}

// Copy puts text on the clipboard.
func (p *Provider) Copy(text string) error {
	if p.WriteClipboard == nil || clipboard.Unsupported {
		return fmt.Errorf("no clipboard is available")
	}
	if err := p.WriteClipboard(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}
