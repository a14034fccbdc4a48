// Package editor opens the commit message file for the user to review.
package editor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"mvdan.cc/sh/v3/shell"
)

// Editor lets the user change the file at path and returns once they are done.
type Editor interface {
	Edit(ctx context.Context, path string) error
	Name() string
}

// Resolve picks the editor command the way git does, with the configured
// editor slotted in below GIT_EDITOR.
func Resolve(getenv func(string) string, configured string) string {
	if v := getenv("GIT_EDITOR"); v != "" {
		return v
	}
	if configured != "" {
		return configured
	}
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if v := getenv(key); v != "" {
			return v
		}
	}
	return defaultEditor()
}

func defaultEditor() string {
	if runtime.GOOS == "windows" {
		return "notepad"
	}
	return "vi"
}

// Select returns the remote Neovim editor when remote is set and a Neovim
// server address is in the environment, and the resolved editor command
// otherwise.
func Select(getenv func(string) string, configured string, remote bool) (Editor, error) {
	if remote {
		if addr := RemoteAddress(getenv); addr != "" {
			return &Remote{Addr: addr}, nil
		}
	}
	return NewCommand(Resolve(getenv, configured))
}

// Command runs an editor program with the file path appended to its
// arguments. The editor inherits the terminal.
type Command struct {
	argv []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewCommand splits command with shell word rules, so "code --wait" works.
func NewCommand(command string) (*Command, error) {
	argv, err := shell.Fields(command, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("parse editor %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}
	return &Command{argv: argv, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}, nil
}

func (c *Command) Name() string {
	return c.argv[0]
}

// Edit blocks until the editor exits. A non-zero exit is an error.
func (c *Command) Edit(ctx context.Context, path string) error {
	args := append(append([]string(nil), c.argv[1:]...), path)
	cmd := exec.CommandContext(ctx, c.argv[0], args...)
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %s failed: %w", c.Name(), err)
	}
	return nil
}
