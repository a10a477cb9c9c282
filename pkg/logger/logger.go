// Package logger is a thin printf-style facade over logrus shared by every
// package in the module. Messages conventionally start with a "[Component]" tag.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu  sync.RWMutex
	std = newLogger(os.Stderr, logrus.InfoLevel)
)

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}

// Init replaces the process logger. An empty level keeps "info"; a nil writer keeps stderr.
func Init(level string, out io.Writer) error {
	lvl := logrus.InfoLevel
	if s := strings.TrimSpace(level); s != "" {
		parsed, err := logrus.ParseLevel(s)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}
	if out == nil {
		out = os.Stderr
	}
	mu.Lock()
	std = newLogger(out, lvl)
	mu.Unlock()
	return nil
}

// L returns the underlying logrus logger.
func L() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return std
}

func Debug(format string, args ...any) { L().Debugf(format, args...) }
func Info(format string, args ...any)  { L().Infof(format, args...) }
func Warn(format string, args ...any)  { L().Warnf(format, args...) }
func Error(format string, args ...any) { L().Errorf(format, args...) }

// WithFields attaches structured fields, e.g. logger.WithFields(logrus.Fields{"tool": name}).
func WithFields(fields logrus.Fields) *logrus.Entry {
	return L().WithFields(fields)
}
