package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/bafproject/baf/engine"
)

// CLIError represents a formatted CLI-level failure: bad flags, an
// unregistered schema name, and similar usage mistakes that never reach
// the engine.
type CLIError struct {
	Message string
	Hint    string
}

func (e *CLIError) Error() string {
	if e.Hint == "" {
		return e.Message
	}
	return e.Message + "\n" + e.Hint
}

// FormatError prints err to w, type-switching on its kind the way the
// teacher's own FormatError distinguishes planner errors from CLI errors:
// an *engine.Error prints its Kind, message, and path; everything else
// falls back to a generic line.
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}
	var engineErr *engine.Error
	var cliErr *CLIError
	switch {
	case errors.As(err, &engineErr):
		formatEngineError(w, engineErr, useColor)
	case errors.As(err, &cliErr):
		fmt.Fprintf(w, "%s%s\n", colorize("Error: ", colorRed, useColor), cliErr.Error())
	default:
		fmt.Fprintf(w, "%s%s\n", colorize("Error: ", colorRed, useColor), err.Error())
	}
}

func formatEngineError(w io.Writer, e *engine.Error, useColor bool) {
	fmt.Fprintf(w, "%s%s\n", colorize(fmt.Sprintf("%s: ", e.Kind), colorRed, useColor), e.Message)
	for _, frag := range e.Path {
		fmt.Fprintf(w, "%s\n", colorize("  at "+frag, colorGray, useColor))
	}
	if e.Cause != nil {
		fmt.Fprintf(w, "%s\n", colorize(fmt.Sprintf("  caused by: %v", e.Cause), colorYellow, useColor))
	}
}
