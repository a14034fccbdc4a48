package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/muesli/reflow/indent"
	"mvdan.cc/sh/v3/shell"
)

// ErrInvalidUTF8 is returned when the command prints output that is not UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 in generator output")

// maxStderr bounds the stderr excerpt carried by an error.
const maxStderr = 2000

// Command runs a program that reads the prompt on stdin and prints the
// message on stdout, e.g. "qwen -y".
type Command struct {
	argv []string
}

// NewCommand splits command with shell word rules. Environment variables
// in the command are expanded.
func NewCommand(command string) (*Command, error) {
	argv, err := shell.Fields(command, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("parse generator command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("generator command is empty")
	}
	return &Command{argv: argv}, nil
}

// Name returns the program name.
func (c *Command) Name() string {
	return c.argv[0]
}

// Args returns the full argument vector.
func (c *Command) Args() []string {
	return append([]string(nil), c.argv...)
}

// Generate runs the command to completion. A non-zero exit carries the
// command's stderr in the error.
func (c *Command) Generate(ctx context.Context, prompt string) (string, error) {
	cmd := exec.CommandContext(ctx, c.argv[0], c.argv[1:]...)
	cmd.Stdin = strings.NewReader(prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to spawn %s: %w", c.Name(), err)
	}
	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%s interrupted: %w", c.Name(), ctxErr)
		}
		return "", fmt.Errorf("%s command failed: %w%s", c.Name(), err, stderrExcerpt(stderr.String()))
	}

	if !utf8.Valid(stdout.Bytes()) {
		return "", fmt.Errorf("%s: %w", c.Name(), ErrInvalidUTF8)
	}
	return stdout.String(), nil
}

func stderrExcerpt(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	if len(stderr) > maxStderr {
		stderr = strings.ToValidUTF8(stderr[len(stderr)-maxStderr:], "")
	}
	return "\n" + indent.String(stderr, 4)
}
