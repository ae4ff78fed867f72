// Package logger provides structured logging with console and optional file output.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog for structured logging.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New creates a logger at the given level writing to stderr and, when
// logFile is set, appending JSON lines to that file. Stdout is left to the
// progress bar and summary table.
func New(level string, logFile string) (*Logger, error) {
	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"},
	}

	var file *os.File
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return nil, err
		}
		file = f
		writers = append(writers, f)
	}

	l := NewWithWriter(zerolog.MultiLevelWriter(writers...), level)
	l.file = file
	return l, nil
}

// NewWithWriter creates a logger that writes JSON lines to w.
func NewWithWriter(w io.Writer, level string) *Logger {
	return &Logger{
		Logger: zerolog.New(w).
			Level(ParseLevel(level)).
			With().
			Timestamp().
			Logger(),
	}
}

// ParseLevel converts a level name, falling back to info for unknown names.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
