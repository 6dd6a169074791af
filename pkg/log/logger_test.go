package log

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureOutput struct {
	lines []string
}

func (c *captureOutput) Write(entry *Entry, formatted []byte) error {
	c.lines = append(c.lines, string(formatted))
	return nil
}

func (c *captureOutput) Close() error { return nil }

func TestLevelFiltering(t *testing.T) {
	out := &captureOutput{}
	logger := NewLogger(WithLevel(WarnLevel), WithOutput(out))

	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")
	logger.Error("kept too")

	require.Len(t, out.lines, 2)
	assert.Contains(t, out.lines[0], "kept")
	assert.Contains(t, out.lines[1], "kept too")
}

func TestWithFieldsPropagateToChildren(t *testing.T) {
	out := &captureOutput{}
	logger := NewLogger(
		WithOutput(out),
		WithFormatter(&TextFormatter{DisableColors: true}),
	)

	child := logger.WithComponent("topology").With(Str("cluster", "slurm-cluster"))
	child.Info("building partitions")

	require.Len(t, out.lines, 1)
	assert.Contains(t, out.lines[0], "component=topology")
	assert.Contains(t, out.lines[0], "cluster=slurm-cluster")
	assert.Contains(t, out.lines[0], "building partitions")
}

func TestTextFormatterSortsFields(t *testing.T) {
	f := &TextFormatter{DisableColors: true}
	entry := &Entry{
		Level:     InfoLevel,
		Message:   "msg",
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Fields:    Fields{"zebra": 1, "alpha": 2, "mid": 3},
	}

	line, err := f.Format(entry)
	require.NoError(t, err)
	assert.Contains(t, string(line), "alpha=2 mid=3 zebra=1")
}

func TestJSONFormatter(t *testing.T) {
	f := &JSONFormatter{}
	entry := &Entry{
		Level:     ErrorLevel,
		Message:   "request failed",
		Timestamp: time.Now(),
		Fields:    Fields{"attempt": 3},
	}

	line, err := f.Format(entry)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(line, &decoded))
	assert.Equal(t, "ERROR", decoded["level"])
	assert.Equal(t, "request failed", decoded["message"])
	assert.Equal(t, float64(3), decoded["attempt"])
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]Level{
		"debug": DebugLevel, "info": InfoLevel, "": InfoLevel,
		"warn": WarnLevel, "warning": WarnLevel,
		"error": ErrorLevel, "fatal": FatalLevel,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
