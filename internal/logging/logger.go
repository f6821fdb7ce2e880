// Package logging configures logrus and carries request-scoped entries through context.
package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

var base = logrus.NewEntry(logrus.StandardLogger())

// Setup configures the standard logger from level and format strings.
// Unknown levels fall back to info, unknown formats to text.
func Setup(level, format string) *logrus.Logger {
	logger := logrus.StandardLogger()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(ParseLevel(level))
	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	base = logrus.NewEntry(logger)
	return logger
}

// ParseLevel converts a level name to a logrus level
func ParseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// SetOutput redirects the base logger, mainly for tests
func SetOutput(w io.Writer) {
	base.Logger.SetOutput(w)
}

// Base returns the process-wide entry
func Base() *logrus.Entry {
	return base
}

// WithLogger stores entry in ctx
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry)
}

// FromContext returns the entry stored in ctx or the base entry
func FromContext(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok && entry != nil {
			return entry
		}
	}
	return base
}

// Component returns an entry tagged with a component name
func Component(ctx context.Context, name string) *logrus.Entry {
	return FromContext(ctx).WithField("component", name)
}
