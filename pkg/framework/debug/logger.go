// Package debug provides logging and timing utilities for the modulation
// engine.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detailed debugging information.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for general informational messages.
	LogLevelInfo
	// LogLevelWarn is for recoverable problems such as unresolved links.
	LogLevelWarn
	// LogLevelError is for failed operations such as unreadable presets.
	LogLevelError
	// LogLevelOff disables all logging.
	LogLevelOff
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name such as "warn" to a LogLevel.
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LogLevelDebug, nil
	case "", "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	case "off", "none":
		return LogLevelOff, nil
	}
	return LogLevelInfo, fmt.Errorf("unknown log level %q", name)
}

// Flags for logger output formatting.
const (
	FlagTime      = 1 << iota // Include timestamp
	FlagShortFile             // Include short file name and line number
	FlagLongFile              // Include full file path and line number
	FlagLevel                 // Include log level
	FlagPrefix                // Include prefix
)

// DefaultFlags are the default formatting flags.
const DefaultFlags = FlagTime | FlagLevel | FlagPrefix

// Logger writes leveled messages followed by key=value fields.
//
// Loggers derived with With share the parent's output, level and lock.
type Logger struct {
	core   *loggerCore
	prefix string
	fields []any
}

type loggerCore struct {
	mu      sync.Mutex
	output  io.Writer
	level   LogLevel
	flags   int
	enabled bool
}

var defaultLogger = New(os.Stderr, "distmod", DefaultFlags)

// New creates a new logger instance.
func New(output io.Writer, prefix string, flags int) *Logger {
	return &Logger{
		core: &loggerCore{
			output:  output,
			level:   LogLevelInfo,
			flags:   flags,
			enabled: true,
		},
		prefix: prefix,
	}
}

// NewFileLogger creates a logger that appends to a file.
func NewFileLogger(filename, prefix string, flags int) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(file, prefix, flags), nil
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	l := New(io.Discard, "", 0)
	l.core.enabled = false
	return l
}

// With returns a logger that appends the given key/value pairs to every
// message.
func (l *Logger) With(keyvals ...any) *Logger {
	fields := make([]any, 0, len(l.fields)+len(keyvals))
	fields = append(fields, l.fields...)
	fields = append(fields, keyvals...)
	return &Logger{core: l.core, prefix: l.prefix, fields: fields}
}

// Named returns a logger whose prefix is extended with name.
func (l *Logger) Named(name string) *Logger {
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}
	return &Logger{core: l.core, prefix: prefix, fields: l.fields}
}

// SetOutput sets the output destination for the logger.
func (l *Logger) SetOutput(w io.Writer) {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	l.core.output = w
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level LogLevel) {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	l.core.level = level
}

// SetFlags sets the output formatting flags.
func (l *Logger) SetFlags(flags int) {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	l.core.flags = flags
}

// SetEnabled enables or disables the logger.
func (l *Logger) SetEnabled(enabled bool) {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	l.core.enabled = enabled
}

// Enabled reports whether a message at level would be written.
func (l *Logger) Enabled(level LogLevel) bool {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	return l.core.enabled && level >= l.core.level && level < LogLevelOff
}

func (l *Logger) log(level LogLevel, msg string, keyvals []any) {
	c := l.core
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled || level < c.level || level >= LogLevelOff {
		return
	}

	var sb strings.Builder

	if c.flags&FlagTime != 0 {
		sb.WriteString(time.Now().Format("2006-01-02 15:04:05.000 "))
	}
	if c.flags&FlagLevel != 0 {
		fmt.Fprintf(&sb, "[%s] ", level)
	}
	if c.flags&FlagPrefix != 0 && l.prefix != "" {
		fmt.Fprintf(&sb, "[%s] ", l.prefix)
	}
	if c.flags&(FlagShortFile|FlagLongFile) != 0 {
		// Skip log() and Debug/Info/etc
		if _, file, line, ok := runtime.Caller(2); ok {
			if c.flags&FlagShortFile != 0 {
				file = filepath.Base(file)
			}
			fmt.Fprintf(&sb, "%s:%d: ", file, line)
		}
	}

	sb.WriteString(strings.TrimSuffix(msg, "\n"))
	writeFields(&sb, l.fields)
	writeFields(&sb, keyvals)
	sb.WriteByte('\n')

	_, _ = io.WriteString(c.output, sb.String())
}

func writeFields(sb *strings.Builder, keyvals []any) {
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if i+1 >= len(keyvals) {
			fmt.Fprintf(sb, " %s=<missing>", key)
			break
		}
		value := fmt.Sprint(keyvals[i+1])
		if strings.ContainsAny(value, " \t\"=") {
			value = fmt.Sprintf("%q", value)
		}
		fmt.Fprintf(sb, " %s=%s", key, value)
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, keyvals ...any) {
	l.log(LogLevelDebug, msg, keyvals)
}

// Info logs an informational message.
func (l *Logger) Info(msg string, keyvals ...any) {
	l.log(LogLevelInfo, msg, keyvals)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, keyvals ...any) {
	l.log(LogLevelWarn, msg, keyvals)
}

// Error logs an error message.
func (l *Logger) Error(msg string, keyvals ...any) {
	l.log(LogLevelError, msg, keyvals)
}

// Default returns the default logger instance.
func Default() *Logger {
	return defaultLogger
}

// SetOutput sets the output destination for the default logger.
func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// SetLevel sets the minimum log level for the default logger.
func SetLevel(level LogLevel) {
	defaultLogger.SetLevel(level)
}

// Debug logs a debug message using the default logger.
func Debug(msg string, keyvals ...any) {
	defaultLogger.log(LogLevelDebug, msg, keyvals)
}

// Info logs an informational message using the default logger.
func Info(msg string, keyvals ...any) {
	defaultLogger.log(LogLevelInfo, msg, keyvals)
}

// Warn logs a warning message using the default logger.
func Warn(msg string, keyvals ...any) {
	defaultLogger.log(LogLevelWarn, msg, keyvals)
}

// Error logs an error message using the default logger.
func Error(msg string, keyvals ...any) {
	defaultLogger.log(LogLevelError, msg, keyvals)
}
