// Package logging sets up the application logger and defines the small
// logging interface the other packages depend on.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the subset of *log.Logger used by library packages.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

var noop = log.New(io.Discard)

// Noop returns a logger that discards all output.
func Noop() Logger { return noop }

// NoopIfNil returns l when non-nil, otherwise a discard logger.
func NoopIfNil(l Logger) Logger {
	if l != nil {
		return l
	}
	return noop
}

// Options controls logger construction.
type Options struct {
	// Level is one of Debug, Info, Warn, Error. Unknown values mean Error.
	Level string
	// File, when set, receives a copy of everything written to Output.
	File string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New creates a timestamped logger writing to Output and, optionally, File.
// The returned closer releases the log file and is never nil.
func New(opts Options) (*log.Logger, io.Closer, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		logFile, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0666)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file '%v': %w", opts.File, err)
		}
		out = io.MultiWriter(out, logFile)
		closer = logFile
	}

	logger := log.New(out)
	logger.SetReportTimestamp(true)
	logger.SetTimeFormat("2006-01-02 15:04:05.000")
	logger.SetLevel(ParseLevel(opts.Level))
	return logger, closer, nil
}

// ParseLevel maps a configured level name to a log level.
func ParseLevel(level string) log.Level {
	switch level {
	case "Debug":
		return log.DebugLevel
	case "Info":
		return log.InfoLevel
	case "Warn":
		return log.WarnLevel
	case "Error":
		return log.ErrorLevel
	default:
		return log.ErrorLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
