// Package ui provides colored console output for iftool.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	// Colors
	Red    = color.New(color.FgRed)
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Blue   = color.New(color.FgBlue)
	Cyan   = color.New(color.FgCyan)
	Bold   = color.New(color.Bold)
)

// Success prints a green success message with checkmark.
func Success(w io.Writer, format string, args ...any) {
	Green.Fprintf(w, "✓ "+format+"\n", args...)
}

// Error prints a red error message with X.
func Error(w io.Writer, format string, args ...any) {
	Red.Fprintf(w, "✗ "+format+"\n", args...)
}

// Warning prints a yellow warning message.
func Warning(w io.Writer, format string, args ...any) {
	Yellow.Fprintf(w, "⚠ "+format+"\n", args...)
}

// Info prints a blue info message.
func Info(w io.Writer, format string, args ...any) {
	Blue.Fprintf(w, format+"\n", args...)
}

// Header prints a bold header.
func Header(w io.Writer, format string, args ...any) {
	Bold.Fprintf(w, format+"\n", args...)
}

// Plain prints an uncolored line.
func Plain(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

// Verbose prints a cyan line only when enabled is set.
func Verbose(w io.Writer, enabled bool, format string, args ...any) {
	if !enabled {
		return
	}
	Cyan.Fprintf(w, format+"\n", args...)
}
