// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ijson

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Position represents a position in the original source text.
// All fields are 1-based where applicable.
type Position struct {
	Line   int // 1-based
	Column int // 1-based, character column
	Start  int // byte index into input (0-based); always required
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span represents a range in the source: [Start, End).
type Span struct {
	// Byte offsets into the original input.
	// End is exclusive: input[Start:End] is the text of the span.
	Start int
	End   int

	// 1-based line and column of the *start* of the span.
	Line   int
	Column int
}

// Text is a helper to return the original text of the span.
func (s Span) Text(input string) string {
	if s.Start < 0 || s.End > len(input) || s.Start > s.End {
		return ""
	}
	return input[s.Start:s.End]
}

// spanFromPosition creates a Span covering the character at pos in src.
// A multi-byte rune is covered whole and CR+LF counts as one character.
// At end of input the span is empty.
func spanFromPosition(pos Position, src string) Span {
	start := pos.Start
	if start > len(src) {
		start = len(src)
	}
	end := start
	if start < len(src) {
		if strings.HasPrefix(src[start:], "\r\n") {
			end += 2
		} else {
			_, w := utf8.DecodeRuneInString(src[start:])
			end += w
		}
	}
	return Span{
		Start:  start,
		End:    end,
		Line:   pos.Line,
		Column: pos.Column,
	}
}
