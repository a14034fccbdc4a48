// Package generator turns a prompt into raw commit message text by asking an
// external model, either a local command or an OpenAI-compatible API.
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/sokinpui/qcommit.go/internal/config"
)

// ErrEmptyOutput is returned when the model produced nothing.
var ErrEmptyOutput = errors.New("generator produced no output")

// Generator produces raw text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Name is used in progress and error messages.
	Name() string
}

// New returns the generator selected by cfg.
func New(cfg config.GeneratorConfig, apiKey string) (Generator, error) {
	switch cfg.Backend {
	case config.BackendCommand, "":
		return NewCommand(cfg.Command)
	case config.BackendOpenAI:
		return NewOpenAI(apiKey, cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown generator backend %q", cfg.Backend)
	}
}
