// Package logger provides structured logging configuration for the Uppi client
// with support for different log levels, formats, and output destinations.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/config"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

type correlationKey struct{}

// New returns a logrus logger for level, format (json, text) and output
// (stdout, stderr, discard or a file path). Unknown levels fall back to info
// and unknown formats to JSON. An unusable file path logs to stderr.
func New(level, format, output string) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	logger.SetFormatter(formatter(format))

	out, warn := openOutput(output)
	logger.SetOutput(out)
	if warn != nil {
		logger.WithError(warn).Warn("Cannot log to file, using stderr")
	}

	return logger
}

func formatter(format string) logrus.Formatter {
	switch strings.ToLower(format) {
	case "text":
		return &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
		}
	case "json":
		return &logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		}
	default:
		return &logrus.JSONFormatter{TimestampFormat: timestampFormat}
	}
}

// openOutput resolves the log destination. Command output goes to stdout, so
// stderr is the usual choice for the CLI.
func openOutput(output string) (io.Writer, error) {
	switch strings.ToLower(output) {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	case "discard":
		return io.Discard, nil
	}

	path := filepath.Clean(output)
	if strings.Contains(path, "..") {
		return os.Stderr, fmt.Errorf("log path %q leaves the working tree", output)
	}

	// #nosec G304 -- path is cleaned and traversal is rejected above
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return os.Stderr, err
	}
	return file, nil
}

// NewWithConfig builds a logger from the logging section of the client configuration.
func NewWithConfig(cfg *config.LoggingConfig) *logrus.Logger {
	return New(cfg.Level, cfg.Format, cfg.Output)
}

// SetCorrelationID stores a request correlation ID on the context.
func SetCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the correlation ID stored on ctx, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// WithCorrelationID returns a log entry carrying the context's correlation ID
// under the "request_id" field, when one is present.
func WithCorrelationID(ctx context.Context, logger *logrus.Logger) *logrus.Entry {
	entry := logrus.NewEntry(logger)
	if id := CorrelationID(ctx); id != "" {
		entry = entry.WithField("request_id", id)
	}
	return entry
}
