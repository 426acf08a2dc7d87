// Copyright 2025 Canact Users
// SPDX-License-Identifier: Apache-2.0

// Package logger holds the process-wide structured logger. The level comes
// from CANACT_LOG_LEVEL at startup and can be raised or lowered later
// without rebuilding handlers.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	Logger *slog.Logger
	level  = new(slog.LevelVar)
	mu     sync.Mutex
)

func init() {
	initLogger(ParseLevel(os.Getenv("CANACT_LOG_LEVEL")), os.Stderr, false)
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToUpper(name) {
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

func initLogger(lvl slog.Level, w io.Writer, useJSON bool) {
	if w == nil {
		w = os.Stderr
	}

	level.Set(lvl)
	opts := &slog.HandlerOptions{Level: level, AddSource: true}

	var handler slog.Handler
	if useJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	Logger = slog.New(handler)
}

// SetLevel changes the level of the existing handler.
func SetLevel(lvl slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	level.Set(lvl)
}

// SetOutput rebuilds the logger against a new writer, optionally switching
// to the JSON handler.
func SetOutput(w io.Writer, useJSON bool) {
	mu.Lock()
	defer mu.Unlock()
	initLogger(level.Level(), w, useJSON)
}
