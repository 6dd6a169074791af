package log

import (
	"fmt"
	"strings"
	"sync"
)

// TestEntry is a captured log entry for assertions in tests.
type TestEntry struct {
	Level   Level
	Message string
	Fields  []Field
}

// TestLogger captures log entries without producing output.
type TestLogger struct {
	mu      sync.Mutex
	entries []TestEntry
	fields  []Field
	level   Level
}

var _ Logger = (*TestLogger)(nil)

// NewTestLogger creates a TestLogger for use in unit tests.
func NewTestLogger() *TestLogger {
	return &TestLogger{level: DebugLevel}
}

// Entries returns a copy of all captured entries.
func (l *TestLogger) Entries() []TestEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]TestEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// MessagesContaining returns captured messages containing the substring.
func (l *TestLogger) MessagesContaining(substr string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.entries {
		if strings.Contains(e.Message, substr) {
			out = append(out, e.Message)
		}
	}
	return out
}

func (l *TestLogger) capture(level Level, msg string, fields []Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	all := append(append([]Field{}, l.fields...), fields...)
	l.entries = append(l.entries, TestEntry{Level: level, Message: msg, Fields: all})
}

// Debug records a debug entry.
func (l *TestLogger) Debug(msg string, fields ...Field) { l.capture(DebugLevel, msg, fields) }

// Info records an info entry.
func (l *TestLogger) Info(msg string, fields ...Field) { l.capture(InfoLevel, msg, fields) }

// Warn records a warn entry.
func (l *TestLogger) Warn(msg string, fields ...Field) { l.capture(WarnLevel, msg, fields) }

// Error records an error entry.
func (l *TestLogger) Error(msg string, fields ...Field) { l.capture(ErrorLevel, msg, fields) }

// Fatal records a fatal entry without exiting, so tests can assert on it.
func (l *TestLogger) Fatal(msg string, fields ...Field) { l.capture(FatalLevel, msg, fields) }

// Debugf records a printf-style debug entry.
func (l *TestLogger) Debugf(msg string, args ...interface{}) {
	l.capture(DebugLevel, fmt.Sprintf(msg, args...), nil)
}

// Infof records a printf-style info entry.
func (l *TestLogger) Infof(msg string, args ...interface{}) {
	l.capture(InfoLevel, fmt.Sprintf(msg, args...), nil)
}

// Warnf records a printf-style warn entry.
func (l *TestLogger) Warnf(msg string, args ...interface{}) {
	l.capture(WarnLevel, fmt.Sprintf(msg, args...), nil)
}

// Errorf records a printf-style error entry.
func (l *TestLogger) Errorf(msg string, args ...interface{}) {
	l.capture(ErrorLevel, fmt.Sprintf(msg, args...), nil)
}

// With returns the same logger so tests observe entries from child loggers.
// The extra fields are still attached to captured entries.
func (l *TestLogger) With(fields ...Field) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fields = append(l.fields, fields...)
	return l
}

// WithComponent returns a logger tagged with a component name.
func (l *TestLogger) WithComponent(component string) Logger {
	return l.With(Component(component))
}

// SetLevel sets the minimum level.
func (l *TestLogger) SetLevel(level Level) { l.level = level }

// GetLevel returns the minimum level.
func (l *TestLogger) GetLevel() Level { return l.level }
