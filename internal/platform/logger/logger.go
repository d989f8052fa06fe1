// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package logger builds the process-wide [*slog.Logger].
//
// Development gets colourised, human-readable output via tint; every other
// environment gets JSON on stdout for log shipping.
package logger

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"

	"github.com/ZewK3/hrportal/internal/platform/constants"
)

// New returns a logger tagged with the application name and version.
func New(out io.Writer, development, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug || development {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if development {
		handler = tint.NewHandler(out, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		})
	} else {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler).With(
		slog.String("app", constants.AppName),
		slog.String("version", constants.AppVersion),
	)
}
