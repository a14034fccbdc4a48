package qcommit

import (
	"errors"
	"fmt"
)

// Step names used in StepError.
const (
	StepDiff        = "diff"
	StepGenerate    = "generate"
	StepMessageFile = "message file"
	StepEditor      = "editor"
	StepReadMessage = "read message"
	StepCommit      = "commit"
	StepSource      = "source"
)

var (
	// ErrNothingToCommit matches every NothingToCommitError.
	ErrNothingToCommit = errors.New("nothing to commit")
	// ErrEmptyMessage aborts before git commit is run.
	ErrEmptyMessage = errors.New("Aborting commit due to empty commit message.")
)

// StepError names the pipeline step that failed.
type StepError struct {
	Step string
	Err  error
	Hint string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// NothingToCommitError reports an empty diff. Its text depends on which
// changes were collected.
type NothingToCommitError struct {
	Amend bool
	All   bool
}

func (e *NothingToCommitError) Error() string {
	switch {
	case e.Amend:
		return "No changes found in HEAD commit."
	case e.All:
		return "No changes to commit."
	default:
		return "No changes staged for commit."
	}
}

func (e *NothingToCommitError) Hint() string {
	switch {
	case e.Amend:
		return "Cannot generate commit message for an empty commit."
	case e.All:
		return "Nothing to commit (no modified tracked files)."
	default:
		return "Use 'git add' to stage changes, or use '-a' to commit all modified tracked files."
	}
}

func (e *NothingToCommitError) Is(target error) bool {
	return target == ErrNothingToCommit
}

// ExitError carries the exit status of git so the wrapper can exit with it.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("git commit exited with status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// Hints returns the follow-up lines to show under err.
func Hints(err error) []string {
	var nothing *NothingToCommitError
	if errors.As(err, &nothing) {
		return []string{nothing.Hint()}
	}
	var step *StepError
	if errors.As(err, &step) && step.Hint != "" {
		return []string{step.Hint}
	}
	return nil
}

// ExitCode returns the process exit status for err.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *ExitError
	if errors.As(err, &exit) && exit.Code > 0 {
		return exit.Code
	}
	return 1
}
