// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ijson_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mdhender/ijson"
)

func TestPrintDiagnostic(t *testing.T) {
	for _, tc := range []struct {
		name   string
		input  string
		source string
		want   string
	}{
		{
			name:  "second line",
			input: "[1,\n  x]",
			want: "<input>:2:3: error: unrecognized value\n" +
				"      x]\n" +
				"      ^\n",
		},
		{
			name:   "note",
			input:  "-0",
			source: "zero.ij",
			want: "zero.ij:1:1: error: number isn't valid\n" +
				"    -0\n" +
				"    ^\n" +
				"    note: a minus sign must be followed by a digit from 1 to 9; -0 is not accepted\n",
		},
		{
			name:  "end of input",
			input: "{a:1,\r\n b:2",
			want: "<input>:2:5: error: object isn't comma separated\n" +
				"     b:2\n" +
				"        ^\n",
		},
		{
			name:  "tabs",
			input: "[\t1\t2]",
			want: "<input>:1:5: error: malformed array\n" +
				"    [\t1\t2]\n" +
				"     \t \t^\n",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ijson.Parse(tc.input, ijson.WithSource(tc.source))
			if err == nil {
				t.Fatalf("Parse(%q) succeeded", tc.input)
			}
			diag, ok := ijson.DiagnosticFromError(err, tc.input)
			if !ok {
				t.Fatalf("DiagnosticFromError(%v) = false", err)
			}
			var buf bytes.Buffer
			ijson.PrintDiagnostic(&buf, diag, tc.input)
			if got := buf.String(); got != tc.want {
				t.Fatalf("PrintDiagnostic =\n%q\nwant\n%q", got, tc.want)
			}
		})
	}
}

func TestDiagnosticFromError_NotSyntax(t *testing.T) {
	if _, ok := ijson.DiagnosticFromError(errors.New("boom"), ""); ok {
		t.Fatalf("DiagnosticFromError(boom) = true, want false")
	}
}

func TestDiagnosticFromError_Span(t *testing.T) {
	for _, tc := range []struct {
		input string
		text  string
		start int
	}{
		{input: "{é:1}", text: "é", start: 1},
		{input: "[1 €]", text: "€", start: 3},
		{input: "[1 2]", text: "2", start: 3},
		{input: "[1,", text: "", start: 3},
	} {
		_, err := ijson.Parse(tc.input)
		if err == nil {
			t.Fatalf("Parse(%q) succeeded", tc.input)
		}
		diag, ok := ijson.DiagnosticFromError(err, tc.input)
		if !ok {
			t.Fatalf("%q: DiagnosticFromError(%v) = false", tc.input, err)
		}
		if diag.Span.Start != tc.start {
			t.Errorf("%q: Span.Start = %d, want %d", tc.input, diag.Span.Start, tc.start)
		}
		if got := diag.Span.Text(tc.input); got != tc.text {
			t.Errorf("%q: Span.Text = %q, want %q", tc.input, got, tc.text)
		}
	}
}
