package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// ConsoleOutput writes log entries to stdout, with error and fatal entries
// going to stderr.
type ConsoleOutput struct {
	mu          sync.Mutex
	writer      io.Writer
	errorWriter io.Writer
}

// ConsoleOutputOption configures a ConsoleOutput.
type ConsoleOutputOption func(*ConsoleOutput)

// WithWriter sets a custom writer, mainly for tests.
func WithWriter(w io.Writer) ConsoleOutputOption {
	return func(o *ConsoleOutput) {
		o.writer = w
		o.errorWriter = w
	}
}

// NewConsoleOutput creates a ConsoleOutput.
func NewConsoleOutput(options ...ConsoleOutputOption) *ConsoleOutput {
	o := &ConsoleOutput{
		writer:      os.Stdout,
		errorWriter: os.Stderr,
	}
	for _, option := range options {
		option(o)
	}
	return o
}

// Write writes the formatted entry to the console.
func (o *ConsoleOutput) Write(entry *Entry, formatted []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	w := o.writer
	if entry.Level >= ErrorLevel {
		w = o.errorWriter
	}
	_, err := w.Write(formatted)
	return err
}

// Close implements the Output interface; the console is never closed.
func (o *ConsoleOutput) Close() error {
	return nil
}

// FileOutput writes log entries to a file, rotating it when it exceeds a size
// limit and keeping a bounded number of backup files.
type FileOutput struct {
	mu          sync.Mutex
	file        *os.File
	filename    string
	maxSize     int64
	maxBackups  int
	currentSize int64
}

// FileOutputOption configures a FileOutput.
type FileOutputOption func(*FileOutput)

// WithMaxSize sets the rotation threshold in bytes.
func WithMaxSize(maxBytes int64) FileOutputOption {
	return func(o *FileOutput) {
		o.maxSize = maxBytes
	}
}

// WithMaxBackups sets the number of rotated files to keep.
func WithMaxBackups(n int) FileOutputOption {
	return func(o *FileOutput) {
		o.maxBackups = n
	}
}

// NewFileOutput creates a FileOutput. The defaults match the logfile policy
// slurmbridge has always used: rotate at 5 MiB, keep 5 backups.
func NewFileOutput(filename string, options ...FileOutputOption) *FileOutput {
	o := &FileOutput{
		filename:   filename,
		maxSize:    5 * 1024 * 1024,
		maxBackups: 5,
	}
	for _, option := range options {
		option(o)
	}
	return o
}

// Write appends the formatted entry, rotating first if it would exceed the
// size limit.
func (o *FileOutput) Write(entry *Entry, formatted []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.file == nil {
		if err := o.open(); err != nil {
			return err
		}
	}

	if o.maxSize > 0 && o.currentSize+int64(len(formatted)) > o.maxSize {
		if err := o.rotate(); err != nil {
			return err
		}
	}

	n, err := o.file.Write(formatted)
	o.currentSize += int64(n)
	return err
}

// Close closes the underlying file.
func (o *FileOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.file == nil {
		return nil
	}
	err := o.file.Close()
	o.file = nil
	return err
}

func (o *FileOutput) open() error {
	if err := os.MkdirAll(filepath.Dir(o.filename), 0755); err != nil {
		return err
	}
	file, err := os.OpenFile(o.filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}
	o.file = file
	o.currentSize = info.Size()
	return nil
}

func (o *FileOutput) rotate() error {
	if o.file != nil {
		if err := o.file.Close(); err != nil {
			return err
		}
		o.file = nil
	}

	backup := fmt.Sprintf("%s.%s", o.filename, time.Now().Format("2006-01-02T15-04-05"))
	if err := os.Rename(o.filename, backup); err != nil && !os.IsNotExist(err) {
		return err
	}

	if o.maxBackups > 0 {
		if err := o.pruneBackups(); err != nil {
			return err
		}
	}
	return o.open()
}

func (o *FileOutput) pruneBackups() error {
	backups, err := filepath.Glob(o.filename + ".*")
	if err != nil || len(backups) <= o.maxBackups {
		return err
	}
	// Backup names embed their timestamp, so a lexical sort is newest-last.
	sort.Strings(backups)
	for _, stale := range backups[:len(backups)-o.maxBackups] {
		if err := os.Remove(stale); err != nil {
			return err
		}
	}
	return nil
}

// NullOutput discards all log entries.
type NullOutput struct{}

// NewNullOutput creates a NullOutput.
func NewNullOutput() *NullOutput {
	return &NullOutput{}
}

// Write implements the Output interface but does nothing.
func (o *NullOutput) Write(entry *Entry, formatted []byte) error {
	return nil
}

// Close implements the Output interface but does nothing.
func (o *NullOutput) Close() error {
	return nil
}
