// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

// Package log configures structured logging for mcpstack-tool using log/slog.
package log

import (
	"io"
	"log/slog"

	"github.com/mcpstack/mcpstack-tool/internal/redact"
)

// Level maps the verbosity flags to a slog level.
//
//   - quiet mode:   only WARN and ERROR messages
//   - normal mode:  INFO and above
//   - verbose mode: DEBUG and above
//
// Quiet wins when both flags are set.
func Level(verbose, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelWarn
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Setup installs a slog.TextHandler writing to w as the default logger.
// Timestamps are dropped outside verbose mode, and string values pass
// through redact so secrets and the home directory never reach the log.
func Setup(w io.Writer, verbose, quiet bool) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       Level(verbose, quiet),
		ReplaceAttr: replaceAttr(verbose),
	})
	slog.SetDefault(slog.New(handler))
}

func replaceAttr(verbose bool) func([]string, slog.Attr) slog.Attr {
	return func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey && !verbose {
			return slog.Attr{}
		}
		if a.Value.Kind() == slog.KindString {
			return slog.String(a.Key, redact.String(a.Value.String()))
		}
		return a
	}
}
