// Package logging wires the engine's structured logging: an slog pipeline
// for the simulation itself and a zerolog pipeline for the ops-facing
// components, with an optional Graylog GELF sink.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// SlogManager manages the engine's slog-based logging.
type SlogManager struct {
	logger *slog.Logger
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the logging system with console and optional file output.
// The optional provider injects per-record dynamic attributes.
func (m *SlogManager) Setup(file io.Writer, level string, provider ContextProvider) {
	lvl := parseLevel(level)

	// Common handler options with RFC3339 time formatting
	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler
	handlers = append(handlers, slog.NewTextHandler(os.Stdout, handlerOpts))
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	}

	var handler slog.Handler = NewMultiHandler(handlers...)
	if provider != nil {
		handler = NewContextHandler(handler, provider)
	}

	m.logger = slog.New(handler)
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger, or slog.Default before Setup.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}
