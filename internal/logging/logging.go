package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sokinpui/qcommit.go/internal/config"
)

// DefaultFile returns <user cache dir>/qcommit/qcommit.log.
func DefaultFile() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("logging: locate user cache dir: %w", err)
	}
	return filepath.Join(base, config.AppDir, "qcommit.log"), nil
}

// New builds a JSON logger that writes only to the log file, so the
// terminal stays free for git, the editor and the spinner. When debug is
// set the level is forced to debug.
func New(cfg config.LogConfig, debug bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	if debug {
		level = zapcore.DebugLevel
	}

	path := cfg.File
	if path == "" {
		if path, err = DefaultFile(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(level)
	loggerConfig.OutputPaths = []string{path}
	loggerConfig.ErrorOutputPaths = []string{path}

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger, nil
}

// NewOrNop is New, falling back to a no-op logger. Logging problems must
// never stop a commit.
func NewOrNop(cfg config.LogConfig, debug bool) *zap.Logger {
	logger, err := New(cfg, debug)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
