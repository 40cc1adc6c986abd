// Copyright 2026 The Halcyon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package logging provides the logging facade used across halcyon.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Level log level for Logger.
type Level uint8

const (
	// Error error log level.
	Error Level = iota
	// Warn warn log level.
	Warn
	// Info info log level.
	Info
	// Debug debug log level.
	Debug
)

// Logger provides interface for halcyon logger implementations.
type Logger interface {
	Debug(fmt string, a ...any)
	Info(fmt string, a ...any)
	Error(fmt string, a ...any)
	Warn(fmt string, a ...any)

	WithFields(map[string]any) Logger

	GetLevel() Level
	SetLevel(Level)
}

// StandardLogger is the default halcyon logger implementation, backed by
// logrus.
type StandardLogger struct {
	logger *logrus.Logger
	fields map[string]any
}

// New returns a new standard logger.
func New() *StandardLogger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	return &StandardLogger{logger: logger}
}

// WithOutput sets the underlying output writer.
func (l *StandardLogger) WithOutput(w io.Writer) *StandardLogger {
	l.logger.SetOutput(w)
	return l
}

// WithFields provides additional fields to include in log output.
func (l *StandardLogger) WithFields(fields map[string]any) Logger {
	cpy := *l
	cpy.fields = make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		cpy.fields[k] = v
	}
	for k, v := range fields {
		cpy.fields[k] = v
	}
	return &cpy
}

// SetLevel sets the standard logger level.
func (l *StandardLogger) SetLevel(level Level) {
	var logrusLevel logrus.Level
	switch level {
	case Error:
		logrusLevel = logrus.ErrorLevel
	case Warn:
		logrusLevel = logrus.WarnLevel
	case Info:
		logrusLevel = logrus.InfoLevel
	case Debug:
		logrusLevel = logrus.DebugLevel
	}
	l.logger.SetLevel(logrusLevel)
}

// GetLevel returns the standard logger level.
func (l *StandardLogger) GetLevel() Level {
	switch l.logger.GetLevel() {
	case logrus.ErrorLevel:
		return Error
	case logrus.WarnLevel:
		return Warn
	case logrus.InfoLevel:
		return Info
	default:
		return Debug
	}
}

// Debug logs at debug level.
func (l *StandardLogger) Debug(fmt string, a ...any) {
	l.logger.WithFields(logrus.Fields(l.fields)).Debugf(fmt, a...)
}

// Info logs at info level.
func (l *StandardLogger) Info(fmt string, a ...any) {
	l.logger.WithFields(logrus.Fields(l.fields)).Infof(fmt, a...)
}

// Error logs at error level.
func (l *StandardLogger) Error(fmt string, a ...any) {
	l.logger.WithFields(logrus.Fields(l.fields)).Errorf(fmt, a...)
}

// Warn logs at warn level.
func (l *StandardLogger) Warn(fmt string, a ...any) {
	l.logger.WithFields(logrus.Fields(l.fields)).Warnf(fmt, a...)
}

// NoOpLogger is a logging implementation that discards everything.
type NoOpLogger struct {
	level Level
}

// NewNoOpLogger instantiates a new NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{level: Info}
}

// WithFields returns the logger unchanged.
func (l *NoOpLogger) WithFields(map[string]any) Logger { return l }

// Debug discards the message.
func (*NoOpLogger) Debug(string, ...any) {}

// Info discards the message.
func (*NoOpLogger) Info(string, ...any) {}

// Error discards the message.
func (*NoOpLogger) Error(string, ...any) {}

// Warn discards the message.
func (*NoOpLogger) Warn(string, ...any) {}

// SetLevel records the level.
func (l *NoOpLogger) SetLevel(level Level) { l.level = level }

// GetLevel returns the recorded level.
func (l *NoOpLogger) GetLevel() Level { return l.level }
