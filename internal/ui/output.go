// Package ui provides user interface utilities for formatted terminal output.
package ui

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/rickgorman/clidispatch/pkg/cli"
)

var (
	// Color/style functions
	Bold   = color.New(color.Bold).SprintFunc()
	Dim    = color.New(color.Faint).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()

	// Output destination for status messages
	Out io.Writer = os.Stderr
)

// Info prints an informational message with a cyan arrow.
func Info(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(Out, "  %s %s\n", Cyan("→"), msg)
}

// Success prints a success message with a green checkmark.
func Success(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(Out, "  %s %s\n", Green("✔"), msg)
}

// Fail prints an error message with a red X.
func Fail(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(Out, "  %s %s\n", Red("✘"), msg)
}

// Warn prints a warning message with a yellow circle.
func Warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(Out, "  %s %s\n", Yellow("○"), msg)
}

// DimMsg prints a dimmed message.
func DimMsg(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(Out, "  %s\n", Dim(msg))
}

// ReportError prints a dispatch error and, for usage errors, a pointer to
// the help of the program named prog.
func ReportError(prog string, err error) {
	Fail("%v", err)

	var ce *cli.Error
	if !errors.As(err, &ce) {
		return
	}
	switch ce.Kind {
	case cli.KindUnknownFlag, cli.KindMissingArgument, cli.KindValidation, cli.KindFlagValueParse:
		Info("Run %s for usage information", Bold(prog+" --help"))
	}
}
