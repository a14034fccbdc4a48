package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// Config holds the wrapper's own flag values. Every other argument is kept
// in GitArgs and handed to git commit unchanged.
type Config struct {
	Generator    string
	Backend      string
	Model        string
	ConfigPath   string
	Print        bool
	Copy         bool
	NoEdit       bool
	ExtractBlock bool
	NoSpinner    bool
	Normalize    bool
	Debug        bool
	Usage        bool

	GitArgs []string
}

// newFlagSet defines the wrapper flags. They are long-only so they can not
// shadow a git commit short option.
func newFlagSet(cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("qcommit", pflag.ContinueOnError)

	fs.StringVar(&cfg.Generator, "generator", "", "Generator command, e.g. \"qwen -y\" (overrides the config file).")
	fs.StringVar(&cfg.Backend, "backend", "", "Generator backend: 'command' or 'openai'.")
	fs.StringVar(&cfg.Model, "model", "", "Model name for the openai backend.")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to the config file.")
	fs.BoolVar(&cfg.Print, "print", false, "Print the generated message to stdout instead of committing.")
	fs.BoolVar(&cfg.Copy, "copy", false, "Copy the final message to the clipboard.")
	fs.BoolVar(&cfg.NoEdit, "no-edit-message", false, "Commit the generated message without opening the editor.")
	fs.BoolVar(&cfg.ExtractBlock, "extract-block", false, "Use the single code block when the model wraps the message in prose.")
	fs.BoolVar(&cfg.NoSpinner, "no-spinner", false, "Disable the progress spinner.")
	fs.BoolVar(&cfg.Normalize, "normalize", false, "Format model output from stdin (or the clipboard) and print it. No git commands run.")
	fs.BoolVar(&cfg.Debug, "debug", false, "Write debug entries to the log file.")
	fs.BoolVar(&cfg.Usage, "usage", false, "Show the flags of this wrapper. --help is passed to git.")

	return fs
}

// ParseArgs splits argv (without the program name) into the wrapper's own
// flags and the git commit arguments. Wrapper flags may appear anywhere
// before a bare "--".
func ParseArgs(argv []string) (*Config, error) {
	cfg := &Config{}
	fs := newFlagSet(cfg)
	fs.SetOutput(io.Discard)

	var own []string
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if arg == "--" {
			cfg.GitArgs = append(cfg.GitArgs, argv[i:]...)
			break
		}
		if !strings.HasPrefix(arg, "--") {
			cfg.GitArgs = append(cfg.GitArgs, arg)
			continue
		}

		name, _, hasValue := strings.Cut(arg[2:], "=")
		flag := fs.Lookup(name)
		if flag == nil {
			cfg.GitArgs = append(cfg.GitArgs, arg)
			continue
		}

		own = append(own, arg)
		if !hasValue && flag.Value.Type() != "bool" && i+1 < len(argv) {
			own = append(own, argv[i+1])
			i++
		}
	}

	if err := fs.Parse(own); err != nil {
		return nil, fmt.Errorf("error: %w", err)
	}

	if cfg.Backend != "" && cfg.Backend != "command" && cfg.Backend != "openai" {
		return nil, fmt.Errorf("error: unknown backend %q (want 'command' or 'openai')", cfg.Backend)
	}
	if cfg.Print && cfg.NoEdit {
		return nil, fmt.Errorf("error: --print and --no-edit-message are mutually exclusive")
	}

	return cfg, nil
}

// PrintUsage writes the wrapper usage to stdout.
func PrintUsage() {
	fs := newFlagSet(&Config{})
	fs.SetOutput(os.Stdout)

	fmt.Println("Usage: qcommit [flags] [git commit arguments]")
	fmt.Println("\nGenerate a commit message for the staged changes, edit it, and commit.")
	fmt.Println("\nExample: qcommit -a -s")
	fmt.Println("\nFlags:")
	fs.PrintDefaults()
}
