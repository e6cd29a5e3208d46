// Package logging builds the zerolog logger shared by richedit components.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const dirPermission = 0o755

// Builder configures a Logger.
type Builder struct {
	writer     io.Writer
	path       string
	level      string
	maxSizeMB  int
	maxBackups int
	console    bool
}

// Logger is a zerolog logger that owns its output.
type Logger struct {
	zerolog.Logger
	file *lumberjack.Logger
}

// New creates a builder writing JSON to stderr at info level.
func New() *Builder {
	return &Builder{
		writer:     os.Stderr,
		level:      "info",
		maxSizeMB:  10,
		maxBackups: 3,
	}
}

// ToWriter sends output to w.
func (b *Builder) ToWriter(w io.Writer) *Builder {
	b.writer = w
	return b
}

// ToFile sends output to a rotating file at path. An empty path keeps the
// writer.
func (b *Builder) ToFile(path string) *Builder {
	b.path = path
	return b
}

// Rotation sets the size in megabytes at which the file rotates and the
// number of rotated files kept.
func (b *Builder) Rotation(maxSizeMB, maxBackups int) *Builder {
	if maxSizeMB > 0 {
		b.maxSizeMB = maxSizeMB
	}
	if maxBackups >= 0 {
		b.maxBackups = maxBackups
	}
	return b
}

// Level sets the minimum level by name.
func (b *Builder) Level(level string) *Builder {
	b.level = level
	return b
}

// Console switches writer output to zerolog's human-readable format.
// File output stays JSON.
func (b *Builder) Console(enabled bool) *Builder {
	b.console = enabled
	return b
}

// Make builds the logger.
func (b *Builder) Make() (*Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(b.level))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", b.level, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	l := &Logger{}
	w := b.writer
	switch {
	case b.path != "":
		if err := os.MkdirAll(filepath.Dir(b.path), dirPermission); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		l.file = &lumberjack.Logger{
			Filename:   b.path,
			MaxSize:    b.maxSizeMB,
			MaxBackups: b.maxBackups,
			MaxAge:     7, // days
			Compress:   true,
		}
		w = zerolog.SyncWriter(l.file)
	case b.console:
		w = zerolog.ConsoleWriter{Out: b.writer, NoColor: true}
	}

	l.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	return l, nil
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Path returns the log file path, or "" when logging to a writer.
func (l *Logger) Path() string {
	if l.file == nil {
		return ""
	}
	return l.file.Filename
}
