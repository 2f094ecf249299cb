// Package logging builds the zerolog logger used across netchat.
//
// Logs go to a rotating file because the chat TUI owns the terminal.
package logging

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the log file created inside the log directory
const FileName = "netchat.log"

// Options controls where and how much is logged
type Options struct {
	Dir   string
	Level string // zerolog level name, e.g. "debug", "info"
}

// ParseLevel converts a level name into a zerolog.Level, falling back to info
func ParseLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// New creates a JSON logger writing to Dir/netchat.log with size-based rotation.
// The returned closer releases the log file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	if opts.Dir == "" {
		return Nop(), nopCloser{}, fmt.Errorf("log directory not set")
	}

	file := &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, FileName),
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}

	logger := NewWithWriter(file, ParseLevel(opts.Level))
	return logger, file, nil
}

// NewWithWriter creates a logger writing JSON lines to w
func NewWithWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(w).Level(level).With().Timestamp().Str("service", "netchat").Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Nop returns a logger that discards everything
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
