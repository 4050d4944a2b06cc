// Package logger builds the process-wide structured logger: the log/slog
// API backed by a charmbracelet/log handler.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/bugstroids/internal/config"
)

// New builds a logger from cfg. Output goes to cfg.File when set and to
// fallback otherwise. The returned closer releases the log file, if any.
func New(cfg config.LoggingConfig, fallback io.Writer) (*slog.Logger, io.Closer, error) {
	out := fallback
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	}

	formatter := log.TextFormatter
	if cfg.JSONFormat {
		formatter = log.JSONFormatter
	}

	handler := log.NewWithOptions(out, log.Options{
		Level:           parseLogLevel(cfg.Level),
		Formatter:       formatter,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return slog.New(handler), closer, nil
}

// Init builds the logger and installs it as the slog default.
func Init(cfg config.LoggingConfig, fallback io.Writer) (io.Closer, error) {
	logger, closer, err := New(cfg, fallback)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	logger.With("component", "logger").Debug("Logger initialized",
		"level", cfg.Level,
		"json_format", cfg.JSONFormat,
		"file", cfg.File,
	)
	return closer, nil
}

func parseLogLevel(levelStr string) log.Level {
	level, err := log.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
