// Package config loads the qcommit configuration.
//
// Settings live in <user config dir>/qcommit/config.yaml. A dotenv file next
// to it (named "env") may hold API keys; its variables are loaded into the
// process environment without overriding values that are already set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppDir is the directory name under the user config and cache dirs.
	AppDir = "qcommit"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "QCOMMIT_CONFIG"

	BackendCommand = "command"
	BackendOpenAI  = "openai"

	defaultCommand   = "qwen -y"
	defaultModel     = "gpt-4o-mini"
	defaultAPIKeyEnv = "OPENAI_API_KEY"
)

// GeneratorConfig selects and tunes the text generator.
type GeneratorConfig struct {
	Backend string `yaml:"backend"`
	// Command is split with shell word rules; the prompt goes to its stdin.
	Command string `yaml:"command"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env"`
	// Timeout bounds one generation. Zero waits indefinitely.
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// MaxDiffTokens caps the diff sent in the prompt. Zero sends it all.
	MaxDiffTokens int `yaml:"max_diff_tokens,omitempty"`
}

// FormatConfig tunes message normalization.
type FormatConfig struct {
	SubjectWidth int  `yaml:"subject_width"`
	BodyWidth    int  `yaml:"body_width"`
	ExtractBlock bool `yaml:"extract_block"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// Config models config.yaml.
type Config struct {
	Generator GeneratorConfig `yaml:"generator"`
	Format    FormatConfig    `yaml:"format"`
	Log       LogConfig       `yaml:"log"`
	// Editor is used when GIT_EDITOR is not set.
	Editor string `yaml:"editor,omitempty"`
	// RemoteNvim opens the message in the surrounding Neovim instance when
	// qcommit runs inside a Neovim terminal.
	RemoteNvim bool `yaml:"remote_nvim"`
	Spinner    bool `yaml:"spinner"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Generator: GeneratorConfig{
			Backend:   BackendCommand,
			Command:   defaultCommand,
			Model:     defaultModel,
			APIKeyEnv: defaultAPIKeyEnv,
		},
		Format: FormatConfig{
			SubjectWidth: 50,
			BodyWidth:    72,
		},
		Log: LogConfig{
			Level: "info",
		},
		Spinner: true,
	}
}

// Dir returns <user config dir>/qcommit.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locate user config dir: %w", err)
	}
	return filepath.Join(base, AppDir), nil
}

// Path returns the config file location: explicit path, then
// QCOMMIT_CONFIG, then the default under Dir.
func Path(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file at path over the defaults. A missing file is
// not an error. The dotenv file next to it is loaded as well.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := loadEnvFile(filepath.Join(filepath.Dir(path), "env")); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that can not be defaulted.
func (c *Config) Validate() error {
	switch c.Generator.Backend {
	case BackendCommand:
		if strings.TrimSpace(c.Generator.Command) == "" {
			return fmt.Errorf("config: generator.command is required for the %q backend", BackendCommand)
		}
	case BackendOpenAI:
		if c.Generator.Model == "" {
			return fmt.Errorf("config: generator.model is required for the %q backend", BackendOpenAI)
		}
	default:
		return fmt.Errorf("config: unknown generator.backend %q", c.Generator.Backend)
	}
	if c.Generator.Timeout < 0 {
		return fmt.Errorf("config: generator.timeout must not be negative")
	}
	if c.Format.SubjectWidth < 0 || c.Format.BodyWidth < 0 {
		return fmt.Errorf("config: format widths must not be negative")
	}
	return nil
}

// APIKey returns the key for the openai backend from the environment.
func (c *Config) APIKey() string {
	return os.Getenv(c.Generator.APIKeyEnv)
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load env file %s: %w", path, err)
	}
	return nil
}
