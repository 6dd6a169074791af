package log

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// TextFormatter formats log entries as human-readable text.
type TextFormatter struct {
	TimestampFormat string // Format for timestamps
	DisableColors   bool   // Disable terminal colors
}

// NewTextFormatter creates a TextFormatter with sensible defaults.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000",
	}
}

// Format formats the entry as a single text line.
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	timestampFormat := f.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = "2006-01-02T15:04:05.000"
	}
	timestamp := entry.Timestamp.Format(timestampFormat)

	level := entry.Level.String()
	if !f.DisableColors {
		level = colorizeLevel(entry.Level)
		timestamp = colorDim + timestamp + colorReset
	}

	// Sorted fields keep log lines and log-based tests deterministic.
	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var fieldParts []string
	for _, k := range keys {
		if f.DisableColors {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%v", k, entry.Fields[k]))
		} else {
			fieldParts = append(fieldParts, fmt.Sprintf("%s%s%s=%v", colorCyan, k, colorReset, entry.Fields[k]))
		}
	}
	fields := ""
	if len(fieldParts) > 0 {
		fields = " " + strings.Join(fieldParts, " ")
	}

	return []byte(fmt.Sprintf("%s %s %s%s\n", timestamp, level, entry.Message, fields)), nil
}

// JSONFormatter formats log entries as JSON objects.
type JSONFormatter struct {
	TimestampFormat string
}

// Format formats the entry as JSON.
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	timestampFormat := f.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = time.RFC3339
	}

	data := make(map[string]interface{}, len(entry.Fields)+3)
	data["timestamp"] = entry.Timestamp.Format(timestampFormat)
	data["level"] = entry.Level.String()
	data["message"] = entry.Message
	for k, v := range entry.Fields {
		if k != "timestamp" && k != "level" && k != "message" {
			data[k] = v
		}
	}

	out, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// Color codes for terminal output
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorDim    = "\033[90m"
)

func colorizeLevel(level Level) string {
	switch level {
	case DebugLevel:
		return colorBlue + "DBG" + colorReset
	case InfoLevel:
		return colorGreen + "INF" + colorReset
	case WarnLevel:
		return colorYellow + "WRN" + colorReset
	case ErrorLevel:
		return colorRed + "ERR" + colorReset
	case FatalLevel:
		return colorRed + "FTL" + colorReset
	default:
		return level.String()
	}
}
