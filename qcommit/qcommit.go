package qcommit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sokinpui/qcommit.go/internal/args"
	"github.com/sokinpui/qcommit.go/internal/editor"
	"github.com/sokinpui/qcommit.go/internal/fence"
	"github.com/sokinpui/qcommit.go/internal/format"
	"github.com/sokinpui/qcommit.go/internal/generator"
	"github.com/sokinpui/qcommit.go/internal/git"
	"github.com/sokinpui/qcommit.go/internal/msgfile"
	"github.com/sokinpui/qcommit.go/model"
)

// VCS is the git side of the pipeline.
type VCS interface {
	Diff(ctx context.Context, opts git.DiffOptions) (string, error)
	Status(ctx context.Context) (string, error)
	GitDir(ctx context.Context) (string, error)
	Branch() string
	SignoffLine() (string, error)
	Commit(ctx context.Context, message string, args []string) error
	Passthrough(ctx context.Context, args []string) error
}

// Progress runs a slow call while showing label.
type Progress interface {
	Run(ctx context.Context, label string, fn func(context.Context) (string, error)) (string, error)
}

// Source provides raw text to normalize and takes the final message for
// --copy.
type Source interface {
	GetContent() (string, error)
	Copy(text string) error
}

// Options are the per-invocation settings.
type Options struct {
	// GitArgs are passed to git commit unchanged.
	GitArgs []string

	Print        bool
	Copy         bool
	NoEdit       bool
	ExtractBlock bool
	// Normalize formats text from the Source instead of generating.
	Normalize bool

	Format        format.Formatter
	MaxDiffTokens int
	// Timeout bounds generation. Zero waits for the generator.
	Timeout time.Duration
}

// Deps are the collaborators. Only the ones a flow uses must be set.
type Deps struct {
	VCS       VCS
	Generator generator.Generator
	Editor    editor.Editor
	Progress  Progress
	Source    Source
	Stdout    io.Writer
	Logger    *zap.Logger
}

// App orchestrates one invocation.
type App struct {
	opts Options
	deps Deps
	log  *zap.Logger
}

// New creates an App. A zero Format uses the default widths.
func New(opts Options, deps Deps) *App {
	if opts.Format == (format.Formatter{}) {
		opts.Format = format.Default
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Progress == nil {
		deps.Progress = direct{}
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &App{opts: opts, deps: deps, log: log}
}

// direct runs fn without any progress display.
type direct struct{}

func (direct) Run(ctx context.Context, _ string, fn func(context.Context) (string, error)) (string, error) {
	return fn(ctx)
}

// Execute runs the flow selected by the options and git arguments.
func (a *App) Execute(ctx context.Context) (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	if a.opts.Normalize {
		return a.normalize()
	}

	cls := args.Classify(a.opts.GitArgs)
	if cls.Bypass {
		return a.passthrough(ctx, cls)
	}
	return a.generate(ctx, cls)
}

func (a *App) passthrough(ctx context.Context, cls args.Result) (model.Summary, error) {
	a.log.Info("bypassing generation", zap.String("reason", cls.Reason), zap.Strings("args", a.opts.GitArgs))
	summary := model.Summary{Flow: model.FlowPassthrough}
	if err := a.deps.VCS.Passthrough(ctx, a.opts.GitArgs); err != nil {
		return summary, commitError(err)
	}
	summary.Committed = true
	return summary, nil
}

func (a *App) generate(ctx context.Context, cls args.Result) (model.Summary, error) {
	summary := model.Summary{Flow: model.FlowCommit}
	if a.opts.Print {
		summary.Flow = model.FlowPrint
	}

	diff, err := a.deps.VCS.Diff(ctx, git.DiffOptions{IncludeUnstaged: cls.IncludeUnstaged, Amend: cls.Amend})
	if err != nil {
		return summary, &StepError{Step: StepDiff, Err: err}
	}
	if strings.TrimSpace(diff) == "" {
		return summary, &NothingToCommitError{Amend: cls.Amend, All: cls.IncludeUnstaged}
	}
	summary.DiffBytes = len(diff)

	prompt, truncated := generator.Prompt(diff, a.opts.MaxDiffTokens)
	summary.DiffTruncated = truncated
	a.log.Info("generating message",
		zap.String("generator", a.deps.Generator.Name()),
		zap.Int("diff_bytes", len(diff)),
		zap.Bool("truncated", truncated),
		zap.Bool("amend", cls.Amend),
		zap.Bool("all", cls.IncludeUnstaged),
	)

	message, err := a.message(ctx, prompt)
	if err != nil {
		return summary, err
	}
	summary.Message = message

	if a.opts.Print {
		fmt.Fprintln(a.deps.Stdout, message)
		a.copy(&summary)
		return summary, nil
	}

	if !a.opts.NoEdit {
		if message, err = a.edit(ctx, message, cls); err != nil {
			return summary, err
		}
		summary.Message = message
	}
	if message == "" {
		return summary, ErrEmptyMessage
	}

	a.copy(&summary)

	a.log.Info("committing", zap.String("subject", format.Subject(message)))
	if err := a.deps.VCS.Commit(ctx, message, a.opts.GitArgs); err != nil {
		return summary, commitError(err)
	}
	summary.Committed = true
	return summary, nil
}

// message asks the generator and normalizes its output.
func (a *App) message(ctx context.Context, prompt string) (string, error) {
	gen := a.deps.Generator
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := a.deps.Progress.Run(ctx, "Generating commit message with "+gen.Name(), func(ctx context.Context) (string, error) {
		return gen.Generate(ctx, prompt)
	})
	if err != nil {
		return "", generateError(gen, err, a.opts.Timeout)
	}
	a.log.Debug("generator finished", zap.Duration("took", time.Since(start)), zap.Int("raw_bytes", len(raw)))

	message := a.normalizeRaw(raw)
	if message == "" {
		return "", ErrEmptyMessage
	}
	return message, nil
}

func (a *App) normalizeRaw(raw string) string {
	if a.opts.ExtractBlock {
		if block, ok := fence.ExtractBlock(raw); ok {
			a.log.Debug("using the single code block of the generator output")
			raw = block
		}
	}
	return a.opts.Format.Message(fence.Strip(raw))
}

// edit puts message in COMMIT_EDITMSG, lets the user change it and reads
// it back. The file is removed on every path.
func (a *App) edit(ctx context.Context, message string, cls args.Result) (string, error) {
	gitDir, err := a.deps.VCS.GitDir(ctx)
	if err != nil {
		return "", &StepError{Step: StepMessageFile, Err: err}
	}

	content := msgfile.Content{Message: message}
	if cls.Signoff {
		line, err := a.deps.VCS.SignoffLine()
		if err != nil {
			return "", &StepError{Step: StepMessageFile, Err: err}
		}
		content.Signoff = line
	}
	if status, err := a.deps.VCS.Status(ctx); err == nil {
		content.Comments = true
		content.Status = status
		content.Branch = a.deps.VCS.Branch()
	} else {
		a.log.Warn("git status failed, writing message without comments", zap.Error(err))
	}

	f, err := msgfile.Create(gitDir, content)
	if err != nil {
		return "", &StepError{Step: StepMessageFile, Err: err}
	}
	defer func() {
		if err := f.Remove(); err != nil {
			a.log.Warn("could not remove message file", zap.Error(err))
		}
	}()

	a.log.Debug("opening editor", zap.String("editor", a.deps.Editor.Name()), zap.String("path", f.Path()))
	if err := a.deps.Editor.Edit(ctx, f.Path()); err != nil {
		return "", &StepError{Step: StepEditor, Err: err}
	}

	edited, err := f.Read()
	if err != nil {
		return "", &StepError{Step: StepReadMessage, Err: err}
	}
	return edited, nil
}

func (a *App) copy(summary *model.Summary) {
	if !a.opts.Copy || a.deps.Source == nil {
		return
	}
	if err := a.deps.Source.Copy(summary.Message); err != nil {
		a.log.Warn("copy failed", zap.Error(err))
		summary.CopyErr = err
		return
	}
	summary.Copied = true
}

// normalize formats raw model output from the Source and prints it.
func (a *App) normalize() (model.Summary, error) {
	summary := model.Summary{Flow: model.FlowNormalize}
	raw, err := a.deps.Source.GetContent()
	if err != nil {
		return summary, &StepError{Step: StepSource, Err: err}
	}

	message := a.normalizeRaw(raw)
	if message == "" {
		return summary, ErrEmptyMessage
	}
	summary.Message = message
	fmt.Fprintln(a.deps.Stdout, message)
	a.copy(&summary)
	return summary, nil
}

// generateError attaches a hint that matches why the generator failed.
func generateError(gen generator.Generator, err error, timeout time.Duration) *StepError {
	stepErr := &StepError{Step: StepGenerate, Err: err}
	switch {
	case errors.Is(err, context.Canceled):
	case errors.Is(err, context.DeadlineExceeded):
		stepErr.Hint = fmt.Sprintf("%s did not answer within %s. Raise generator.timeout in the config.", gen.Name(), timeout)
	default:
		if _, ok := gen.(*generator.Command); ok {
			stepErr.Hint = fmt.Sprintf("Make sure '%s' is installed and available in PATH.", gen.Name())
		}
	}
	return stepErr
}

// commitError keeps git's exit status so the wrapper can exit with it.
func commitError(err error) error {
	if code, ok := git.ExitCode(err); ok {
		return &ExitError{Code: code, Err: err}
	}
	return &StepError{Step: StepCommit, Err: err}
}
