// Copyright 2017 The go-ethereum Authors
// Copyright (c) 2026 The RewardMill developers
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package log is the node wide logger. It is backed by the go-ethereum slog logger and adds
// handlers that render big integers and addresses as plain strings.
package log

import (
	"log/slog"
	"strings"

	gethlog "github.com/ethereum/go-ethereum/log"
)

// Levels, from most to least verbose.
const (
	LevelTrace = gethlog.LevelTrace
	LevelDebug = gethlog.LevelDebug
	LevelInfo  = gethlog.LevelInfo
	LevelWarn  = gethlog.LevelWarn
	LevelError = gethlog.LevelError
	LevelCrit  = gethlog.LevelCrit

	levelMaxVerbosity = LevelTrace
	timeFormat        = "2006-01-02T15:04:05-0700"
	termTimeFormat    = "01-02|15:04:05.000"
)

// Logger writes key/value pairs to a handler.
type Logger = gethlog.Logger

// NewLogger returns a logger writing to h.
func NewLogger(h slog.Handler) Logger {
	return gethlog.NewLogger(h)
}

// SetDefault replaces the root logger.
func SetDefault(l Logger) {
	gethlog.SetDefault(l)
}

// Root returns the root logger.
func Root() Logger {
	return gethlog.Root()
}

// New returns a logger carrying ctx bound to the current root.
func New(ctx ...any) Logger {
	return Root().New(ctx...)
}

// WithContext returns a logger carrying ctx that follows the root logger, even if the
// root is replaced after the call. Meant for package level loggers.
func WithContext(ctx ...any) *ContextLogger {
	return &ContextLogger{ctx: ctx}
}

// ContextLogger resolves against the root logger on every write.
type ContextLogger struct {
	ctx []any
}

func (l *ContextLogger) write(level slog.Level, msg string, kv []any) {
	Root().With(l.ctx...).Log(level, msg, kv...)
}

func (l *ContextLogger) Trace(msg string, kv ...any) { l.write(LevelTrace, msg, kv) }
func (l *ContextLogger) Debug(msg string, kv ...any) { l.write(LevelDebug, msg, kv) }
func (l *ContextLogger) Info(msg string, kv ...any)  { l.write(LevelInfo, msg, kv) }
func (l *ContextLogger) Warn(msg string, kv ...any)  { l.write(LevelWarn, msg, kv) }
func (l *ContextLogger) Error(msg string, kv ...any) { l.write(LevelError, msg, kv) }

// Package level shortcuts on the root logger.
func Trace(msg string, kv ...any) { Root().Trace(msg, kv...) }
func Debug(msg string, kv ...any) { Root().Debug(msg, kv...) }
func Info(msg string, kv ...any)  { Root().Info(msg, kv...) }
func Warn(msg string, kv ...any)  { Root().Warn(msg, kv...) }
func Error(msg string, kv ...any) { Root().Error(msg, kv...) }
func Crit(msg string, kv ...any)  { Root().Crit(msg, kv...) }

// LevelString returns a 5 character string for level.
func LevelString(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelCrit:
		return "crit"
	default:
		return "unknown"
	}
}

// FromVerbosity maps the legacy 0 (crit) .. 5 (trace) verbosity scale to a level.
func FromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return LevelCrit
	case v == 1:
		return LevelError
	case v == 2:
		return LevelWarn
	case v == 3:
		return LevelInfo
	case v == 4:
		return LevelDebug
	default:
		return LevelTrace
	}
}

// ParseLevel parses a level name as written by LevelString.
func ParseLevel(s string) (slog.Level, bool) {
	for _, l := range []slog.Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelCrit} {
		if strings.EqualFold(s, LevelString(l)) {
			return l, true
		}
	}
	return 0, false
}
