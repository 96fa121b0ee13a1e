// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging provides the logrus-backed loggers used across the toolkit.
//
// Commands use the package-level printf helpers (Info, Warn, Error, Fatal).
// Library packages never call them; they receive a Logger instead.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Logger is the logging surface injected into toolkit components.
// *logrus.Logger and *logrus.Entry both satisfy it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

var (
	std      = newLogger(os.Stderr)
	exitFunc = os.Exit
)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(textFormatter(out))
	return l
}

func textFormatter(out io.Writer) *logrus.TextFormatter {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &logrus.TextFormatter{
		DisableColors:    !tty,
		FullTimestamp:    true,
		DisableTimestamp: tty,
		PadLevelText:     true,
	}
}

// Configure sets the level and output format of the default logger.
// Format is either "text" or "json".
func Configure(level, format string) error {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	std.SetLevel(lvl)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		std.SetFormatter(textFormatter(std.Out))
	case "json":
		std.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q, expected \"text\" or \"json\"", format)
	}
	return nil
}

// Default returns the process-wide logger for injection into components.
func Default() *logrus.Logger {
	return std
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// WithFields attaches structured fields when the logger supports them.
func WithFields(l Logger, fields map[string]interface{}) Logger {
	if fl, ok := l.(logrus.FieldLogger); ok {
		return fl.WithFields(logrus.Fields(fields))
	}
	return l
}

// OrDefault returns l, or the default logger when l is nil.
func OrDefault(l Logger) Logger {
	if l == nil {
		return std
	}
	return l
}

// Info logs an informational message on the default logger.
func Info(format string, args ...interface{}) {
	std.Infof(format, args...)
}

// Warn logs a warning on the default logger.
func Warn(format string, args ...interface{}) {
	std.Warnf(format, args...)
}

// Error logs an error on the default logger.
func Error(format string, args ...interface{}) {
	std.Errorf(format, args...)
}

// Debug logs a debug message on the default logger.
func Debug(format string, args ...interface{}) {
	std.Debugf(format, args...)
}

// Fatal logs the message as an error and exits with status 1.
func Fatal(format string, args ...interface{}) {
	std.Errorf(format, args...)
	exitFunc(1)
}
