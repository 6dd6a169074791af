// Package format renders CLI messages with consistent colors.
package format

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
)

// Error prints an error message to stderr.
func Error(format string, args ...interface{}) {
	errorColor.Fprint(os.Stderr, "Error: ")
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Warning prints a warning message to stderr.
func Warning(format string, args ...interface{}) {
	warningColor.Fprint(os.Stderr, "Warning: ")
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Success prints a success message to stdout.
func Success(format string, args ...interface{}) {
	successColor.Print("✓ ")
	fmt.Printf(format+"\n", args...)
}
