// Package msgfile manages the COMMIT_EDITMSG file the user edits before
// committing.
package msgfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// Name is the file name inside the git directory.
const Name = "COMMIT_EDITMSG"

var header = []string{
	"# Please enter the commit message for your changes. Lines starting",
	"# with '#' will be ignored, and an empty message aborts the commit.",
	"#",
}

// Content is what goes into the file.
type Content struct {
	Message string
	// Signoff is a complete trailer line, appended after a blank line.
	Signoff string
	// Comments adds the instruction block with Branch and Status.
	Comments bool
	Branch   string
	// Status is the output of git status --porcelain.
	Status string
}

// Render returns the file text.
func (c Content) Render() string {
	var b strings.Builder
	b.WriteString(c.Message)
	b.WriteString("\n")
	if c.Signoff != "" {
		b.WriteString("\n" + c.Signoff + "\n")
	}
	if !c.Comments {
		return b.String()
	}

	b.WriteString("\n")
	for _, line := range header {
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(&b, "# On branch %s\n", c.Branch)
	b.WriteString("# Changes to be committed:\n")
	for _, line := range statusLines(c.Status) {
		b.WriteString("# " + line + "\n")
	}
	return b.String()
}

func statusLines(status string) []string {
	return lo.Filter(strings.Split(status, "\n"), func(line string, _ int) bool {
		return strings.TrimSpace(line) != ""
	})
}

// Strip drops comment lines and surrounding whitespace from edited text.
func Strip(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	kept := lo.Reject(lines, func(line string, _ int) bool {
		return strings.HasPrefix(line, "#")
	})
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// File is a message file on disk. Remove must be called on every path out.
type File struct {
	path string
}

// Create writes c to COMMIT_EDITMSG in gitDir, replacing any earlier file.
func Create(gitDir string, c Content) (*File, error) {
	path := filepath.Join(gitDir, Name)
	if err := os.WriteFile(path, []byte(c.Render()), 0o644); err != nil {
		return nil, fmt.Errorf("failed to create commit message file: %w", err)
	}
	return &File{path: path}, nil
}

func (f *File) Path() string {
	return f.path
}

// Read returns the file contents with comments stripped.
func (f *File) Read() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited message: %w", err)
	}
	return Strip(string(data)), nil
}

// Remove deletes the file. A file that is already gone is not an error.
func (f *File) Remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", f.path, err)
	}
	return nil
}
