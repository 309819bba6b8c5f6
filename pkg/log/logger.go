// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log is the process-wide leveled logger used by the demo
// binary, backed by a zap SugaredLogger. The dict package does not log.
package log

import (
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the log level
type Level int

const (
	LevelDebug Level = iota
	LevelVerbose
	LevelNotice
	LevelWarning
	LevelError
)

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug, LevelVerbose:
		return zapcore.DebugLevel
	case LevelWarning:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

var (
	mu      sync.RWMutex
	level   Level = LevelNotice
	atom          = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	sugar   *zap.SugaredLogger
	closed  atomic.Bool
)

func init() {
	sugar = buildLogger(os.Stdout)
}

func buildLogger(w zapcore.WriteSyncer) *zap.SugaredLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderCfg)

	core := zapcore.NewCore(encoder, w, atom)
	return zap.New(core, zap.AddCaller()).Sugar()
}

// SetLevel sets the log level
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
	atom.SetLevel(l.zapLevel())
}

// SetLevelString sets the log level from string
func SetLevelString(s string) {
	switch s {
	case "debug":
		SetLevel(LevelDebug)
	case "verbose":
		SetLevel(LevelVerbose)
	case "notice":
		SetLevel(LevelNotice)
	case "warning":
		SetLevel(LevelWarning)
	case "error":
		SetLevel(LevelError)
	default:
		SetLevel(LevelNotice)
	}
}

// SetOutput redirects logging to out, replacing the underlying logger.
func SetOutput(out *os.File) {
	mu.Lock()
	defer mu.Unlock()
	sugar = buildLogger(zapcore.AddSync(out))
}

// Close flushes any buffered log entries.
func Close() {
	if closed.Swap(true) {
		return
	}
	mu.RLock()
	defer mu.RUnlock()
	_ = sugar.Sync()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	if GetLevel() <= LevelDebug {
		current().Debugf(format, args...)
	}
}

// Verbose logs a verbose message
func Verbose(format string, args ...interface{}) {
	if GetLevel() <= LevelVerbose {
		current().Debugf(format, args...)
	}
}

// Info logs an info message (notice level)
func Info(format string, args ...interface{}) {
	if GetLevel() <= LevelNotice {
		current().Infof(format, args...)
	}
}

// Warning logs a warning message
func Warning(format string, args ...interface{}) {
	if GetLevel() <= LevelWarning {
		current().Warnf(format, args...)
	}
}

// Warn is an alias for Warning
func Warn(format string, args ...interface{}) {
	Warning(format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	if GetLevel() <= LevelError {
		current().Errorf(format, args...)
	}
}

// Fatal logs a fatal message and exits
func Fatal(format string, args ...interface{}) {
	current().Fatalf(format, args...)
}

// GetLevel returns the current log level
func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return level
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return GetLevel() <= LevelDebug
}

// IsVerboseEnabled returns true if verbose logging is enabled
func IsVerboseEnabled() bool {
	return GetLevel() <= LevelVerbose
}
