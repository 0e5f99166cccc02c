// Package logging configures the process-wide zerolog logger.
//
// The TUI owns the terminal, so in interactive mode records go to a file.
// Headless runs log to stderr through a ConsoleWriter.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.Nop()

// Init builds the global logger. When path is non-empty records are appended
// to that file; when console is true they are also written to stderr. The
// returned closer releases the file and is safe to call when none was opened.
func Init(level, path string, console bool) (io.Closer, error) {
	var writers []io.Writer
	closer := io.Closer(nopCloser{})

	if strings.TrimSpace(path) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return closer, fmt.Errorf("create log dir: %w", err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closer, fmt.Errorf("open app log: %w", err)
		}
		writers = append(writers, file)
		closer = file
	}
	if console {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return closer, err
	}

	switch len(writers) {
	case 0:
		log = zerolog.Nop()
	case 1:
		log = zerolog.New(writers[0]).Level(lvl).With().Timestamp().Logger()
	default:
		log = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(lvl).With().Timestamp().Logger()
	}
	return closer, nil
}

// SetOutput points the global logger at w. Tests use it to capture records.
func SetOutput(w io.Writer, level zerolog.Level) {
	log = zerolog.New(w).Level(level)
}

// ParseLevel maps a level name to a zerolog level; empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	if level == "warning" {
		level = "warn"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q", level)
	}
	return lvl, nil
}

// Debug starts a debug record.
func Debug() *zerolog.Event { return log.Debug() }

// Info starts an info record.
func Info() *zerolog.Event { return log.Info() }

// Warn starts a warning record.
func Warn() *zerolog.Event { return log.Warn() }

// Error starts an error record.
func Error() *zerolog.Event { return log.Error() }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
