// Package log provides structured logging for slurmbridge components.
package log

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Level represents the severity level of a log message.
type Level int

// Log levels
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name into a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level: %s", level)
	}
}

// Fields is a map of field names to values.
type Fields map[string]interface{}

// ComponentKey tags log entries with the emitting component.
const ComponentKey = "component"

// Entry represents a single log entry.
type Entry struct {
	Level     Level
	Message   string
	Fields    Fields
	Timestamp time.Time
}

// Logger is the logging interface consumed by slurmbridge components.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Debugf(msg string, args ...interface{})
	Infof(msg string, args ...interface{})
	Warnf(msg string, args ...interface{})
	Errorf(msg string, args ...interface{})

	With(fields ...Field) Logger
	WithComponent(component string) Logger

	SetLevel(level Level)
	GetLevel() Level
}

// Formatter renders log entries to bytes.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// Output receives formatted log entries.
type Output interface {
	Write(entry *Entry, formatted []byte) error
	Close() error
}

// Option configures a BaseLogger.
type Option func(*BaseLogger)

// WithLevel sets the minimum level.
func WithLevel(level Level) Option {
	return func(l *BaseLogger) {
		l.level = level
	}
}

// WithFormatter sets the entry formatter.
func WithFormatter(f Formatter) Option {
	return func(l *BaseLogger) {
		l.formatter = f
	}
}

// WithOutput appends an output.
func WithOutput(o Output) Option {
	return func(l *BaseLogger) {
		l.outputs = append(l.outputs, o)
	}
}

// BaseLogger implements the Logger interface.
type BaseLogger struct {
	level     Level
	fields    Fields
	formatter Formatter
	outputs   []Output
}

// NewLogger creates a logger with the given options. Without options it logs
// text-formatted entries at info level to the console.
func NewLogger(options ...Option) Logger {
	l := &BaseLogger{
		level:     InfoLevel,
		fields:    Fields{},
		formatter: NewTextFormatter(),
	}
	for _, option := range options {
		option(l)
	}
	if len(l.outputs) == 0 {
		l.outputs = []Output{NewConsoleOutput()}
	}
	return l
}

// Debug logs a message at the debug level.
func (l *BaseLogger) Debug(msg string, fields ...Field) {
	if l.level <= DebugLevel {
		l.write(DebugLevel, msg, fields)
	}
}

// Info logs a message at the info level.
func (l *BaseLogger) Info(msg string, fields ...Field) {
	if l.level <= InfoLevel {
		l.write(InfoLevel, msg, fields)
	}
}

// Warn logs a message at the warn level.
func (l *BaseLogger) Warn(msg string, fields ...Field) {
	if l.level <= WarnLevel {
		l.write(WarnLevel, msg, fields)
	}
}

// Error logs a message at the error level.
func (l *BaseLogger) Error(msg string, fields ...Field) {
	if l.level <= ErrorLevel {
		l.write(ErrorLevel, msg, fields)
	}
}

// Fatal logs a message at the fatal level and exits.
func (l *BaseLogger) Fatal(msg string, fields ...Field) {
	l.write(FatalLevel, msg, fields)
	os.Exit(1)
}

// Debugf logs a printf-style message at the debug level.
func (l *BaseLogger) Debugf(msg string, args ...interface{}) {
	if l.level <= DebugLevel {
		l.writef(DebugLevel, msg, args)
	}
}

// Infof logs a printf-style message at the info level.
func (l *BaseLogger) Infof(msg string, args ...interface{}) {
	if l.level <= InfoLevel {
		l.writef(InfoLevel, msg, args)
	}
}

// Warnf logs a printf-style message at the warn level.
func (l *BaseLogger) Warnf(msg string, args ...interface{}) {
	if l.level <= WarnLevel {
		l.writef(WarnLevel, msg, args)
	}
}

// Errorf logs a printf-style message at the error level.
func (l *BaseLogger) Errorf(msg string, args ...interface{}) {
	if l.level <= ErrorLevel {
		l.writef(ErrorLevel, msg, args)
	}
}

// With returns a new logger carrying the additional fields.
func (l *BaseLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	child := &BaseLogger{
		level:     l.level,
		formatter: l.formatter,
		outputs:   l.outputs,
		fields:    Fields{},
	}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	for _, field := range fields {
		child.fields[field.Key] = field.Value
	}
	return child
}

// WithComponent returns a new logger tagged with a component name.
func (l *BaseLogger) WithComponent(component string) Logger {
	return l.With(Component(component))
}

// SetLevel sets the minimum log level.
func (l *BaseLogger) SetLevel(level Level) {
	l.level = level
}

// GetLevel returns the current minimum log level.
func (l *BaseLogger) GetLevel() Level {
	return l.level
}

// Close closes all outputs.
func (l *BaseLogger) Close() error {
	var firstErr error
	for _, output := range l.outputs {
		if err := output.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
