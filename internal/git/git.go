package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned when git prints output that is not UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 in git output")

// CommandError describes a git invocation that could not run or exited
// with a non-zero status.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s failed: %v", strings.Join(e.Args, " "), e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit status carried by err, if git ran and failed.
func ExitCode(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}

// Client runs git in a working directory.
type Client struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Stdin, Stdout and Stderr are given to interactive commands
	// (commit). Nil means the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a client for dir.
func New(dir string) *Client {
	return &Client{Dir: dir}
}

// DiffOptions selects which changes the diff covers.
type DiffOptions struct {
	// IncludeUnstaged adds unstaged changes to tracked files (commit -a).
	IncludeUnstaged bool
	// Amend adds the changes of the HEAD commit (commit --amend).
	Amend bool
}

// Diff returns the changes that the commit will contain.
func (c *Client) Diff(ctx context.Context, opts DiffOptions) (string, error) {
	if opts.Amend {
		head, err := c.output(ctx, "diff", "HEAD~1", "HEAD")
		if err != nil {
			return "", fmt.Errorf("diff of HEAD commit (is there a parent commit?): %w", err)
		}
		// Extra staged and unstaged changes are best effort when amending.
		staged, _ := c.output(ctx, "diff", "--cached")
		var unstaged string
		if opts.IncludeUnstaged {
			unstaged, _ = c.output(ctx, "diff")
		}
		return head + staged + unstaged, nil
	}

	staged, err := c.output(ctx, "diff", "--cached")
	if err != nil {
		return "", err
	}
	if !opts.IncludeUnstaged {
		return staged, nil
	}

	unstaged, err := c.output(ctx, "diff")
	if err != nil {
		return "", err
	}
	return staged + unstaged, nil
}

// Status returns `git status --porcelain`.
func (c *Client) Status(ctx context.Context) (string, error) {
	return c.output(ctx, "status", "--porcelain")
}

// GitDir returns the absolute path of the repository's git directory.
func (c *Client) GitDir(ctx context.Context) (string, error) {
	out, err := c.output(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return "", err
	}
	dir := strings.TrimSpace(out)
	if dir == "" {
		return "", fmt.Errorf("git rev-parse --git-dir printed nothing")
	}
	if !filepath.IsAbs(dir) {
		base := c.Dir
		if base == "" {
			if base, err = os.Getwd(); err != nil {
				return "", err
			}
		}
		dir = filepath.Join(base, dir)
	}
	return dir, nil
}

// Commit runs `git commit -m message args...` attached to the terminal.
func (c *Client) Commit(ctx context.Context, message string, args []string) error {
	return c.interactive(ctx, append([]string{"commit", "-m", message}, args...))
}

// Passthrough runs `git commit args...` attached to the terminal.
func (c *Client) Passthrough(ctx context.Context, args []string) error {
	return c.interactive(ctx, append([]string{"commit"}, args...))
}

func (c *Client) interactive(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.Dir
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if c.Stdin != nil {
		cmd.Stdin = c.Stdin
	}
	if c.Stdout != nil {
		cmd.Stdout = c.Stdout
	}
	if c.Stderr != nil {
		cmd.Stderr = c.Stderr
	}
	if err := cmd.Run(); err != nil {
		return &CommandError{Args: args[:1], Err: err}
	}
	return nil
}

// output runs git, returning stdout. The output must be valid UTF-8.
func (c *Client) output(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &CommandError{Args: args, Stderr: stderr.String(), Err: err}
	}
	if !utf8.Valid(stdout.Bytes()) {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), ErrInvalidUTF8)
	}
	return stdout.String(), nil
}
