package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config holds configuration for the zerolog logger
type Config struct {
	// Path is the log file path. Empty means Writer (or stderr).
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level name (debug, info, warn, error).
	// Empty means info for a log file and warn for stderr.
	Level string
	// Writer overrides the destination when Path is empty
	Writer io.Writer
}

// ZeroLogger implements Logger on top of zerolog
type ZeroLogger struct {
	logger zerolog.Logger
	file   *os.File
}

// New creates a logger from the given configuration
func New(cfg Config) (*ZeroLogger, error) {
	var (
		out  io.Writer
		file *os.File
	)

	switch {
	case cfg.Path != "":
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, file = f, f
	case cfg.Writer != nil:
		out = cfg.Writer
	default:
		out = os.Stderr
	}

	level, err := ParseLevel(cfg.Level, cfg.Path != "")
	if err != nil {
		if file != nil {
			file.Close()
		}
		return nil, err
	}

	switch cfg.Format {
	case FormatJSON:
	case FormatText, "":
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}
	default:
		if file != nil {
			file.Close()
		}
		return nil, fmt.Errorf("unknown log format %q (valid: json, text)", cfg.Format)
	}

	return &ZeroLogger{
		logger: zerolog.New(out).Level(level).With().Timestamp().Logger(),
		file:   file,
	}, nil
}

// ParseLevel parses a log level name. An empty name maps to info when
// logging to a file and warn otherwise.
func ParseLevel(s string, toFile bool) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		if toFile {
			return zerolog.InfoLevel, nil
		}
		return zerolog.WarnLevel, nil
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// Debug logs a debug message
func (l *ZeroLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.logger.Debug().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Info logs an info message
func (l *ZeroLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.logger.Info().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Warn logs a warning message
func (l *ZeroLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.logger.Warn().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Error logs an error message
func (l *ZeroLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.logger.Error().Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}

// WithFields returns a logger with additional fields
func (l *ZeroLogger) WithFields(fields Fields) Logger {
	return &ZeroLogger{
		logger: l.logger.With().Fields(map[string]interface{}(fields)).Logger(),
		file:   l.file,
	}
}

// Close closes the log file, if any
func (l *ZeroLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
