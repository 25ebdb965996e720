// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log provides a minimal leveled logger used by the pe package. It
// mirrors the shape of github.com/saferwall/pe/log, which the upstream
// project depends on but does not vendor alongside this core library.
package log

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// Level is a logging severity.
type Level int8

// Severity levels, ordered from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// String returns the textual name of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Logger is the minimal interface every logging backend implements.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// stdLogger writes leveled log lines to an io.Writer using the standard
// library logger.
type stdLogger struct {
	mu  sync.Mutex
	log *log.Logger
}

// NewStdLogger returns a Logger that writes to w.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{log: log.New(w, "", log.LstdFlags)}
}

func (l *stdLogger) Log(level Level, keyvals ...interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := fmt.Sprint(keyvals...)
	l.log.Printf("[%s] %s", level, msg)
	return nil
}

// filter wraps a Logger and drops entries below a minimum level.
type filter struct {
	logger Logger
	level  Level
}

// FilterOption configures a filter.
type FilterOption func(*filter)

// FilterLevel sets the minimum level that passes through the filter.
func FilterLevel(level Level) FilterOption {
	return func(f *filter) {
		f.level = level
	}
}

// NewFilter returns a Logger that discards entries below the configured
// level before forwarding to logger.
func NewFilter(logger Logger, opts ...FilterOption) Logger {
	f := &filter{logger: logger, level: LevelDebug}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.level {
		return nil
	}
	return f.logger.Log(level, keyvals...)
}

// Helper adds printf-style convenience methods on top of a Logger.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger with printf-style helpers.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

// Debugf logs a debug-level message.
func (h *Helper) Debugf(format string, args ...interface{}) {
	h.logger.Log(LevelDebug, fmt.Sprintf(format, args...))
}

// Infof logs an info-level message.
func (h *Helper) Infof(format string, args ...interface{}) {
	h.logger.Log(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs a warn-level message.
func (h *Helper) Warnf(format string, args ...interface{}) {
	h.logger.Log(LevelWarn, fmt.Sprintf(format, args...))
}

// Warn logs a warn-level message built from fmt.Sprint semantics.
func (h *Helper) Warn(args ...interface{}) {
	h.logger.Log(LevelWarn, fmt.Sprint(args...))
}

// Errorf logs an error-level message.
func (h *Helper) Errorf(format string, args ...interface{}) {
	h.logger.Log(LevelError, fmt.Sprintf(format, args...))
}
