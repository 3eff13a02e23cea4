// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging configures the logrus logger used for diagnostics.
// Per-file progress lines are not logged; commands print them to stdout.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/scripture-csv/pkg/types"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// New builds a logger writing to w at the configured level and format.
// Empty fields default to info and text.
func New(cfg types.LogConfig, w io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(w)

	level := logrus.InfoLevel
	if cfg.Level != "" {
		l, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "", FormatText:
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	case FormatJSON:
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	default:
		return nil, fmt.Errorf("unsupported log format %q: use text or json", cfg.Format)
	}
	return log, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// OrDiscard returns log, or a discarding logger when log is nil.
func OrDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return Discard()
	}
	return log
}

// Track logs msg with its elapsed duration when the returned func runs.
func Track(log logrus.FieldLogger, msg string) func() {
	start := time.Now()
	return func() {
		log.WithField("duration", time.Since(start).String()).Debugf("%s completed", msg)
	}
}
