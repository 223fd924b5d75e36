package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is a logging severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel parses debug, info, warn or error (any case).
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
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

type field struct {
	key   string
	value interface{}
}

// sink serialises writes from a logger and everything derived from it.
type sink struct {
	mu sync.Mutex
	w  io.Writer
}

// Logger provides leveled logging for CLI tools. Lines look like
// "[INFO] 15:04:05: message key=value". Loggers derived with WithField share
// the output.
type Logger struct {
	out    *sink
	level  Level
	fields []field
	now    func() time.Time
}

// NewLogger creates a logger writing to stderr. Warnings and errors are
// always shown; verbose adds info and debug adds debug messages.
func NewLogger(verbose, debug bool) *Logger {
	level := LevelWarn
	if verbose {
		level = LevelInfo
	}
	if debug {
		level = LevelDebug
	}
	return &Logger{out: &sink{w: os.Stderr}, level: level, now: time.Now}
}

// NewLoggerTo creates a logger writing to w at the given level.
func NewLoggerTo(w io.Writer, level Level) *Logger {
	return &Logger{out: &sink{w: w}, level: level, now: time.Now}
}

// SetOutput redirects the logger and every logger derived from it.
func (l *Logger) SetOutput(w io.Writer) {
	l.out.mu.Lock()
	l.out.w = w
	l.out.mu.Unlock()
}

// SetLevel sets the minimum level written.
func (l *Logger) SetLevel(level Level) { l.level = level }

// Level returns the minimum level written.
func (l *Logger) Level() Level { return l.level }

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool { return level >= l.level }

// WithField returns a logger that appends key=value to every line.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	fields := make([]field, len(l.fields), len(l.fields)+1)
	copy(fields, l.fields)
	return &Logger{
		out:    l.out,
		level:  l.level,
		fields: append(fields, field{key, value}),
		now:    l.now,
	}
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) { l.log(LevelInfo, format, args) }

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) { l.log(LevelDebug, format, args) }

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) { l.log(LevelWarn, format, args) }

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) { l.log(LevelError, format, args) }

func (l *Logger) log(level Level, format string, args []interface{}) {
	if l == nil || !l.Enabled(level) {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s: ", level, l.now().Format("15:04:05"))
	fmt.Fprintf(&sb, format, args...)
	for _, f := range l.fields {
		fmt.Fprintf(&sb, " %s=%v", f.key, f.value)
	}
	sb.WriteByte('\n')

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	io.WriteString(l.out.w, sb.String())
}
