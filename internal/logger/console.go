// Package logger writes leveled diagnostics for bfind to stderr.
//
// Result paths always go to stdout; everything a ConsoleLogger writes is
// meant for a human watching the terminal, so it is timestamped and, on a
// TTY, colored.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// DefaultLevel keeps ordinary runs quiet: only warnings and errors print.
const DefaultLevel = "warn"

// ConsoleLogger logs diagnostics to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
	now         func() time.Time
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive); anything
// else selects DefaultLevel. Color is used only for terminal writers and
// never when noColor is set.
func NewConsoleLogger(writer io.Writer, logLevel string, noColor bool) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    NormalizeLevel(logLevel),
		colorOutput: !noColor && IsTerminal(writer),
		now:         time.Now,
	}
}

// IsTerminal reports whether w is a terminal that should receive colors.
// It returns false when NO_COLOR is set.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NormalizeLevel lowercases a level name, falling back to DefaultLevel.
func NormalizeLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}
	return DefaultLevel
}

// ValidLevel reports whether level names a known log level.
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "error":
		return true
	}
	return false
}

// Level returns the effective minimum level.
func (cl *ConsoleLogger) Level() string { return cl.logLevel }

// Enabled reports whether messages at level would be written.
func (cl *ConsoleLogger) Enabled(level string) bool {
	return cl.writer != nil && logLevelToInt(strings.ToLower(level)) >= logLevelToInt(cl.logLevel)
}

func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(format string, args ...any) { cl.logWithLevel("TRACE", format, args) }

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(format string, args ...any) { cl.logWithLevel("DEBUG", format, args) }

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(format string, args ...any) { cl.logWithLevel("INFO", format, args) }

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(format string, args ...any) { cl.logWithLevel("WARN", format, args) }

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(format string, args ...any) { cl.logWithLevel("ERROR", format, args) }

func (cl *ConsoleLogger) logWithLevel(level, format string, args []any) {
	if !cl.Enabled(level) {
		return
	}
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := cl.now().Format("15:04:05")
	label := level
	if cl.colorOutput {
		label = levelColor(level).Sprint(level)
	}
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, label, message)
}

// levelColor forces color on: the writer was already checked, and the
// library's own detection only looks at stdout, which is often piped.
func levelColor(level string) *color.Color {
	var c *color.Color
	switch level {
	case "TRACE":
		c = color.New(color.FgHiBlack)
	case "DEBUG":
		c = color.New(color.FgCyan)
	case "INFO":
		c = color.New(color.FgBlue)
	case "WARN":
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgRed)
	}
	c.EnableColor()
	return c
}
