// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ijson

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Diagnostic represents a parse error with a span in the original source.
type Diagnostic struct {
	Severity slog.Level // Error, Warning, Info
	Message  string     // "malformed array"
	Source   string     // name of the input
	Span     Span       // where in the input it occurred
	Notes    []string   // optional additional help messages
}

// notes holds help text for messages that are not obvious on their own.
var notes = map[string]string{
	"number starting with 0":           "integers may not have leading zeros",
	"number isn't valid":               "a minus sign must be followed by a digit from 1 to 9; -0 is not accepted",
	"number is out of range":           "integers must fit in 64 bits",
	"malformed key":                    "keys are one or more letters, without quotes",
	"key-value pair doesn't contain :": "a key must be followed by a colon and a value",
	"object contains duplicate key":    "each key may appear only once in an object",
	"malformed input string":           "only one value is allowed at the top level",
}

// DiagnosticFromError converts a *SyntaxError into a Diagnostic.
// It reports false if err does not contain a *SyntaxError.
func DiagnosticFromError(err error, src string) (Diagnostic, bool) {
	var se *SyntaxError
	if !errors.As(err, &se) {
		return Diagnostic{}, false
	}
	diag := Diagnostic{
		Severity: slog.LevelError,
		Message:  se.Message,
		Source:   se.Source,
		Span:     spanFromPosition(se.Pos, src),
	}
	if note, ok := notes[se.Message]; ok {
		diag.Notes = append(diag.Notes, note)
	}
	return diag, true
}

// PrintDiagnostic writes the diagnostic, the source line it points at,
// and a caret under the offending character.
func PrintDiagnostic(w io.Writer, diag Diagnostic, src string) {
	// Header: file:line:column: error: message
	span := diag.Span
	name := diag.Source
	if name == "" {
		name = "<input>"
	}
	_, _ = fmt.Fprintf(w, "%s:%d:%d: %s: %s\n",
		name, span.Line, span.Column,
		strings.ToLower(diag.Severity.String()), diag.Message)

	line := findLine(src, span.Start)
	_, _ = fmt.Fprintf(w, "    %s\n", line)

	// caret underline, keeping tabs so the caret lines up
	var pad strings.Builder
	col := 1
	for _, ch := range line {
		if col >= span.Column {
			break
		}
		if ch == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
		col++
	}
	_, _ = fmt.Fprintf(w, "    %s^\n", pad.String())

	for _, note := range diag.Notes {
		_, _ = fmt.Fprintf(w, "    note: %s\n", note)
	}
}

// findLine returns the line containing the byte at start, without the
// line ending. A start at the end of input selects the last line.
func findLine(src string, start int) string {
	if start > len(src) {
		start = len(src)
	}
	if start < 0 {
		start = 0
	}

	lineStart := 0
	for i := start - 1; i >= 0; i-- {
		if src[i] == '\n' {
			lineStart = i + 1
			break
		}
	}
	lineEnd := len(src)
	if i := strings.IndexByte(src[start:], '\n'); i >= 0 {
		lineEnd = start + i
	}
	return strings.TrimSuffix(src[lineStart:lineEnd], "\r")
}
