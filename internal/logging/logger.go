// =============================================================================
// XML to CSV Converter - Logging Module
// =============================================================================
//
// This module provides the leveled logger used by the converter and the CLI.
// Messages are printf-style and written to a single writer (stderr by default)
// with a level prefix. Prefixes are colored when the writer is a terminal.
//
// LEVELS:
//   debug < info < warn < error
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Logger is the logging interface used throughout the converter.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Level is a logging threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel converts a level name to a Level.
// Valid values: "debug", "info", "warn", "error" (case-insensitive).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %q", s)
	}
}

// String returns the lower-case name of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// =============================================================================
// WRITER LOGGER
// =============================================================================

// WriterLogger writes leveled messages to an io.Writer.
type WriterLogger struct {
	mu    sync.Mutex
	out   io.Writer
	level Level

	prefixes map[Level]string
}

// New creates a logger that writes messages at or above level to out.
// Prefixes are colored only when out is a terminal and NO_COLOR is unset.
func New(out io.Writer, level Level) *WriterLogger {
	colored := false
	if f, ok := out.(*os.File); ok && (f == os.Stderr || f == os.Stdout) {
		colored = !color.NoColor
	}
	return &WriterLogger{
		out:      out,
		level:    level,
		prefixes: buildPrefixes(colored),
	}
}

// NewDefault creates an info-level logger on stderr.
func NewDefault() *WriterLogger {
	return New(os.Stderr, LevelInfo)
}

func buildPrefixes(colored bool) map[Level]string {
	plain := map[Level]string{
		LevelDebug: "[DEBUG]",
		LevelInfo:  "[INFO]",
		LevelWarn:  "[WARN]",
		LevelError: "[ERROR]",
	}
	if !colored {
		return plain
	}

	paint := map[Level]*color.Color{
		LevelDebug: color.New(color.FgHiBlack),
		LevelInfo:  color.New(color.FgCyan),
		LevelWarn:  color.New(color.FgYellow),
		LevelError: color.New(color.FgRed, color.Bold),
	}
	out := make(map[Level]string, len(plain))
	for lvl, p := range plain {
		c := paint[lvl]
		c.EnableColor()
		out[lvl] = c.Sprint(p)
	}
	return out
}

// SetLevel changes the threshold.
func (l *WriterLogger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *WriterLogger) Debug(msg string, args ...interface{}) { l.log(LevelDebug, msg, args...) }
func (l *WriterLogger) Info(msg string, args ...interface{})  { l.log(LevelInfo, msg, args...) }
func (l *WriterLogger) Warn(msg string, args ...interface{})  { l.log(LevelWarn, msg, args...) }
func (l *WriterLogger) Error(msg string, args ...interface{}) { l.log(LevelError, msg, args...) }

func (l *WriterLogger) log(level Level, msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}
	fmt.Fprintf(l.out, "%s %s\n", l.prefixes[level], fmt.Sprintf(msg, args...))
}

// =============================================================================
// NOP LOGGER
// =============================================================================

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string, ...interface{}) {}
func (Nop) Info(string, ...interface{})  {}
func (Nop) Warn(string, ...interface{})  {}
func (Nop) Error(string, ...interface{}) {}
