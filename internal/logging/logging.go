// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the zap logger used by the CLI. Diagnostics go to
// stderr so stdout stays free for progress output.
package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the log encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// New returns a logger at the given level ("debug", "info", "warn",
// "error") writing format to stderr.
func New(level string, format Format) (*zap.Logger, error) {
	cfg, err := buildConfig(level, format, isTerminal(os.Stderr))
	if err != nil {
		return nil, err
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("cannot init zap logger: %w", err)
	}
	return l, nil
}

func buildConfig(level string, format Format, color bool) (zap.Config, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zap.Config{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case FormatJSON:
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case FormatConsole, "":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.TimeKey = zapcore.OmitKey
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		if color {
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	default:
		return zap.Config{}, fmt.Errorf("invalid log format %q: use console or json", format)
	}

	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	cfg.DisableCaller = lvl != zapcore.DebugLevel
	cfg.Sampling = nil
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SafeSync flushes l, ignoring the errors stderr returns when it is a
// terminal or pipe.
func SafeSync(l *zap.Logger) {
	if l == nil {
		return
	}
	if err := l.Sync(); err != nil && !isIgnorableSyncError(err) {
		fmt.Fprintf(os.Stderr, "log sync error: %v\n", err)
	}
}

func isIgnorableSyncError(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "invalid argument") ||
		strings.Contains(s, "inappropriate ioctl for device") ||
		strings.Contains(s, "bad file descriptor")
}
