package log

import (
	"fmt"
	"os"
	"time"
)

func (l *BaseLogger) write(level Level, msg string, fields []Field) {
	entryFields := Fields{}
	for k, v := range l.fields {
		entryFields[k] = v
	}
	for _, field := range fields {
		entryFields[field.Key] = field.Value
	}

	entry := &Entry{
		Level:     level,
		Message:   msg,
		Fields:    entryFields,
		Timestamp: time.Now(),
	}

	formatted, err := l.formatter.Format(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error formatting log entry: %v\n", err)
		return
	}

	for _, output := range l.outputs {
		if err := output.Write(entry, formatted); err != nil {
			fmt.Fprintf(os.Stderr, "error writing log entry: %v\n", err)
		}
	}
}

func (l *BaseLogger) writef(level Level, msg string, args []interface{}) {
	l.write(level, fmt.Sprintf(msg, args...), nil)
}
