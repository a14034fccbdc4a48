package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sokinpui/qcommit.go/cli"
	"github.com/sokinpui/qcommit.go/internal/args"
	"github.com/sokinpui/qcommit.go/internal/config"
	"github.com/sokinpui/qcommit.go/internal/editor"
	"github.com/sokinpui/qcommit.go/internal/format"
	"github.com/sokinpui/qcommit.go/internal/generator"
	"github.com/sokinpui/qcommit.go/internal/git"
	"github.com/sokinpui/qcommit.go/internal/logging"
	"github.com/sokinpui/qcommit.go/internal/source"
	"github.com/sokinpui/qcommit.go/internal/tui"
	"github.com/sokinpui/qcommit.go/internal/ui"
	"github.com/sokinpui/qcommit.go/model"
	"github.com/sokinpui/qcommit.go/qcommit"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		ui.Error("%v", err)
		ui.Hint("Run 'qcommit --usage' for the wrapper flags.")
		return 2
	}
	if flags.Usage {
		cli.PrintUsage()
		return 0
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		ui.Error("%v", err)
		return 1
	}

	logger := logging.NewOrNop(cfg.Log, flags.Debug)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := qcommit.Options{
		GitArgs:       flags.GitArgs,
		Print:         flags.Print,
		Copy:          flags.Copy,
		NoEdit:        flags.NoEdit,
		ExtractBlock:  cfg.Format.ExtractBlock,
		Normalize:     flags.Normalize,
		Format:        format.Formatter{SubjectWidth: cfg.Format.SubjectWidth, BodyWidth: cfg.Format.BodyWidth},
		MaxDiffTokens: cfg.Generator.MaxDiffTokens,
		Timeout:       cfg.Generator.Timeout,
	}
	deps := qcommit.Deps{
		VCS:      git.New(""),
		Progress: tui.NewSpinner(cfg.Spinner),
		Source:   source.New(),
		Logger:   logger,
	}

	// Generator and editor are only needed when a message is generated, so
	// a bad generator setup never blocks git commit -m.
	if !flags.Normalize && !args.Classify(flags.GitArgs).Bypass {
		if deps.Generator, err = generator.New(cfg.Generator, cfg.APIKey()); err != nil {
			ui.Error("Error: %v", err)
			return 1
		}
		if deps.Editor, err = editor.Select(os.Getenv, cfg.Editor, cfg.RemoteNvim); err != nil {
			ui.Error("Error: %v", err)
			return 1
		}
	}

	summary, err := qcommit.New(opts, deps).Execute(ctx)
	if err != nil {
		logger.Error("qcommit failed", zap.Error(err), zap.String("flow", string(summary.Flow)))
		report(err)
		return qcommit.ExitCode(err)
	}
	logger.Info("qcommit finished", zap.String("flow", string(summary.Flow)), zap.Bool("committed", summary.Committed))

	printSummary(summary, cfg)
	return 0
}

func loadConfig(flags *cli.Config) (*config.Config, error) {
	path, err := config.Path(flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if flags.Generator != "" {
		cfg.Generator.Command = flags.Generator
		cfg.Generator.Backend = config.BackendCommand
	}
	if flags.Backend != "" {
		cfg.Generator.Backend = flags.Backend
	}
	if flags.Model != "" {
		cfg.Generator.Model = flags.Model
	}
	if flags.ExtractBlock {
		cfg.Format.ExtractBlock = true
	}
	if flags.NoSpinner {
		cfg.Spinner = false
	}
	return cfg, cfg.Validate()
}

func report(err error) {
	var exitErr *qcommit.ExitError
	var detailed *qcommit.DetailedError
	switch {
	case errors.As(err, &exitErr):
		// git has printed its own error.
	case errors.Is(err, qcommit.ErrEmptyMessage), errors.Is(err, qcommit.ErrNothingToCommit):
		ui.Error("%v", err)
		for _, h := range qcommit.Hints(err) {
			ui.Hint("%s", h)
		}
	case errors.As(err, &detailed):
		ui.Error("Error: %v", err)
		fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
	case errors.Is(err, context.Canceled):
		ui.Warning("Interrupted.")
	default:
		ui.PrintFailure(err, qcommit.Hints(err))
	}
}

func printSummary(summary model.Summary, cfg *config.Config) {
	if summary.DiffTruncated {
		ui.Warning("The %s diff was cut to %d tokens for the prompt.", ui.Size(summary.DiffBytes), cfg.Generator.MaxDiffTokens)
	}
	if summary.Copied {
		ui.Success("Copied the commit message to the clipboard.")
	}
	if summary.CopyErr != nil {
		ui.Warning("Could not copy the commit message: %v", summary.CopyErr)
	}
}
